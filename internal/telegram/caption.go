package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxCaptionLength is the Bot API limit for photo captions.
	MaxCaptionLength = 1024

	// node names stop here, leaving room for the "more" line
	captionNamesBudget = 1000
)

// Caption lists the nodes that did not answer, for use as a photo caption.
//
// It returns "" when every node answered. Node names are shown without
// port; names that do not fit are summarised as "... (+K more)".
func Caption(total, success int, failedNodes []string) string {
	if success >= total || len(failedNodes) == 0 {
		return ""
	}

	lines := []string{fmt.Sprintf("no response from %d nodes:", total-success)}
	length := utf8.RuneCountInString(lines[0])

	shown := 0
	for _, node := range failedNodes {
		name := HostOnly(node)
		next := length + 1 + utf8.RuneCountInString(name)
		if next > captionNamesBudget {
			break
		}
		lines = append(lines, name)
		length = next
		shown++
	}

	if remaining := len(failedNodes) - shown; remaining > 0 {
		tail := fmt.Sprintf("... (+%d more)", remaining)
		if length+1+utf8.RuneCountInString(tail) <= MaxCaptionLength {
			lines = append(lines, tail)
		}
	}

	return strings.Join(lines, "\n")
}

// HostOnly strips the port from a node identifier.
//
// "[ipv6]:port" and "[ipv6]" yield the bare address, "host:port" yields
// host when port is numeric. Anything else, including a bare IPv6
// address, is returned trimmed but otherwise unchanged.
func HostOnly(node string) string {
	s := strings.TrimSpace(node)

	if strings.HasPrefix(s, "[") {
		if end := strings.Index(s, "]"); end > 0 {
			return s[1:end]
		}
		return s
	}

	if strings.Count(s, ":") != 1 {
		return s
	}
	host, port, _ := strings.Cut(s, ":")
	if port == "" || strings.TrimLeft(port, "0123456789") != "" {
		return s
	}
	return host
}
