package render

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Render replaces every {{name}} placeholder of template with its value.
// Placeholders without a value are left untouched.
func Render(template string, values Values) string {
	pairs := make([]string, 0, len(values)*2)
	for name, value := range values {
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Unresolved returns the names of the placeholders left in svg, sorted and
// without duplicates.
func Unresolved(svg string) []string {
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(svg, -1) {
		names = append(names, m[1])
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// RenderFile renders the template at templatePath into outPath.
//
// It returns the names of placeholders the template uses that values did
// not cover.
func RenderFile(templatePath, outPath string, values Values) ([]string, error) {
	tmpl, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	svg := Render(string(tmpl), values)
	if err := os.WriteFile(outPath, []byte(svg), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write svg: %w", err)
	}
	return Unresolved(svg), nil
}
