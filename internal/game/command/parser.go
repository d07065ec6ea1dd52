package command

import "strings"

// Prefix marks a chat message as a command.
const Prefix = "/"

// ParseResult holds the parsed command name and arguments from a chat line.
type ParseResult struct {
	// Command is the first word without its prefix, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the text after the command with inner spacing preserved.
	RawArgs string
}

// Parse splits a chat line into a command and arguments. A leading Prefix is
// optional.
//
// Postcondition: Command is empty iff the line holds no command word.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	line = strings.TrimSpace(strings.TrimPrefix(line, Prefix))
	if line == "" {
		return ParseResult{}
	}

	word, rest, found := strings.Cut(line, " ")
	res := ParseResult{Command: strings.ToLower(word)}
	if !found {
		return res
	}
	res.RawArgs = strings.TrimSpace(rest)
	if res.RawArgs != "" {
		res.Args = strings.Fields(res.RawArgs)
	}
	return res
}

// Arg returns the i'th argument, or "" when absent.
func (p ParseResult) Arg(i int) string {
	if i < 0 || i >= len(p.Args) {
		return ""
	}
	return p.Args[i]
}
