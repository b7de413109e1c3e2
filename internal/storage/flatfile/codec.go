package flatfile

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-profiles/internal/types"
)

// Profile line layout: ten columns joined by fieldDelimiter.
//
//	name|status|employed|jobDetails|languages|databases|role|comments|whitelist|blacklist
//
// Text columns hold standard Base64 of the UTF-8 value. List columns hold
// one Base64 element per value joined by listDelimiter. Boolean columns
// hold the literals "true" / "false".
const (
	fieldDelimiter = "|"
	listDelimiter  = ";"
	columnCount    = 10
)

const (
	colName = iota
	colStatus
	colEmployed
	colJobDetails
	colLanguages
	colDatabases
	colRole
	colComments
	colWhitelist
	colBlacklist
)

func encodeLine(p types.StudentProfile) string {
	cols := make([]string, columnCount)
	cols[colName] = encodeText(p.FullName)
	cols[colStatus] = encodeText(p.AcademicStatus)
	cols[colEmployed] = strconv.FormatBool(p.Employed)
	cols[colJobDetails] = encodeText(p.JobDetails)
	cols[colLanguages] = encodeList(p.ProgrammingLanguages)
	cols[colDatabases] = encodeList(p.Databases)
	cols[colRole] = encodeText(p.PreferredRole)
	cols[colComments] = encodeList(p.Comments)
	cols[colWhitelist] = strconv.FormatBool(p.Whitelist)
	cols[colBlacklist] = strconv.FormatBool(p.Blacklist)
	return strings.Join(cols, fieldDelimiter)
}

func decodeLine(line string) (types.StudentProfile, error) {
	cols := strings.Split(line, fieldDelimiter)
	if len(cols) != columnCount {
		return types.StudentProfile{}, fmt.Errorf("expected %d columns, got %d", columnCount, len(cols))
	}

	var (
		p   types.StudentProfile
		err error
	)
	text := func(col int, dst *string) {
		if err != nil {
			return
		}
		*dst, err = decodeText(cols[col])
	}
	list := func(col int, dst *[]string) {
		if err != nil {
			return
		}
		*dst, err = decodeList(cols[col])
	}

	text(colName, &p.FullName)
	text(colStatus, &p.AcademicStatus)
	text(colJobDetails, &p.JobDetails)
	list(colLanguages, &p.ProgrammingLanguages)
	list(colDatabases, &p.Databases)
	text(colRole, &p.PreferredRole)
	list(colComments, &p.Comments)
	if err != nil {
		return types.StudentProfile{}, err
	}

	p.Employed = parseBool(cols[colEmployed])
	p.Whitelist = parseBool(cols[colWhitelist])
	p.Blacklist = parseBool(cols[colBlacklist])
	return p, nil
}

func encodeText(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func decodeText(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("decode column: %w", err)
	}
	return string(b), nil
}

// encodeList drops empty elements. An empty string encodes to an empty
// token, which decodeList cannot tell apart from a stray delimiter.
func encodeList(values []string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		parts = append(parts, encodeText(v))
	}
	return strings.Join(parts, listDelimiter)
}

// decodeList always returns a non-nil slice; empty elements are skipped.
func decodeList(s string) ([]string, error) {
	values := []string{}
	if strings.TrimSpace(s) == "" {
		return values, nil
	}
	for _, part := range strings.Split(s, listDelimiter) {
		if part == "" {
			continue
		}
		v, err := decodeText(part)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// parseBool accepts "true" in any case; everything else is false.
func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}
