package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadNodes reads a node list file.
//
// The file holds one node ("host[:port]" or "[ipv6]:port") per line.
// Lines are trimmed; blank lines and lines starting with "#" are skipped.
// Duplicates are kept.
func LoadNodes(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open nodes file: %w", err)
	}
	defer f.Close()

	nodes, err := ParseNodes(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nodes, nil
}

// ParseNodes reads a node list in the [LoadNodes] format from r.
func ParseNodes(r io.Reader) ([]string, error) {
	nodes := []string{}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if strings.Contains(s, "://") {
			return nil, fmt.Errorf("line %d (%s): node must be host[:port], without scheme", line, s)
		}
		nodes = append(nodes, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nodes: %w", err)
	}

	return nodes, nil
}

// AllNodes returns the nodes of NodesFile followed by the inline Nodes.
func (c *Config) AllNodes() ([]string, error) {
	var nodes []string
	if c.NodesFile != "" {
		fromFile, err := LoadNodes(c.NodesFile)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, fromFile...)
	}
	return append(nodes, c.Nodes...), nil
}
