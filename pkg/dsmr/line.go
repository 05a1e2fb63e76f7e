package dsmr

import (
	"strings"
	"unicode/utf8"
)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// splitLines splits a telegram on \r\n, \n or \r. Empty lines are kept
// because the header and separator are skipped by index.
func splitLines(text string) []string {
	return strings.Split(lineEndings.Replace(text), "\n")
}

// meterType strips the leading '/' of the header line. Nothing is validated,
// whatever follows the first character is the meter type.
func meterType(header string) string {
	if header == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(header)
	return header[size:]
}

// parseLine splits `code(value)` or `code(value*unit)`. Only the first '(' is
// significant, the value may carry further groups like `1)(0-0:96.7.19)(...`.
// Without a '*' the unit is empty, readings then carry an empty unit.
func parseLine(line string) (parsedLine, bool) {
	code, rest, found := strings.Cut(line, "(")
	if !found || code == "" || rest == "" {
		return parsedLine{}, false
	}

	// drop the closing bracket
	value := rest[:len(rest)-1]

	out := parsedLine{obisCode: code, value: value}
	if strings.Contains(value, "*") && !strings.Contains(value, ")(") {
		out.value, out.unit, _ = strings.Cut(value, "*")
	}
	return out, true
}
