package session

import (
	"fmt"
	"strings"
)

// Command is one user-level ledger operation.
type Command int

const (
	CmdAdd Command = iota + 1
	CmdList
	CmdBalance
	CmdReport
	CmdExport
	CmdLogout
	CmdHelp
)

var commandNames = map[Command]string{
	CmdAdd:     "add",
	CmdList:    "list",
	CmdBalance: "balance",
	CmdReport:  "report",
	CmdExport:  "export",
	CmdLogout:  "logout",
	CmdHelp:    "help",
}

// Menu digits as shown by the interactive menu.
var menuDigits = map[string]Command{
	"1": CmdAdd,
	"2": CmdList,
	"3": CmdBalance,
	"4": CmdReport,
	"5": CmdExport,
	"6": CmdLogout,
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// ParseCommand accepts a command name (case-insensitive), a menu digit or
// one of the aliases "view", "quit" and "exit".
func ParseCommand(s string) (Command, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := menuDigits[s]; ok {
		return c, nil
	}
	switch s {
	case "view":
		return CmdList, nil
	case "quit", "exit":
		return CmdLogout, nil
	}
	for c, name := range commandNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", s)
}
