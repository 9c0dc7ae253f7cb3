package sqltool

import (
	"fmt"
	"regexp"
	"strings"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validIdentifier(name string) bool {
	return identifierRe.MatchString(name)
}

// ensureReadOnly rejects anything that is not a single SELECT (or CTE)
// statement. The prompt already instructs the model to avoid DML, but the
// adapter enforces it: a prompt is not a security boundary.
func ensureReadOnly(query string) error {
	stripped := stripLeadingComments(query)

	first := firstWord(stripped)
	switch strings.ToUpper(first) {
	case "SELECT":
		// ok
	case "WITH":
		// WITH only introduces the CTE list; the statement after it can
		// still be DML. Walk past the definitions and check the real verb.
		verb, err := cteStatementVerb(stripped)
		if err != nil {
			return err
		}
		if !strings.EqualFold(verb, "SELECT") {
			return fmt.Errorf("only read-only SELECT statements are allowed, got WITH ... %s", strings.ToUpper(verb))
		}
	default:
		return fmt.Errorf("only read-only SELECT statements are allowed, got %q", first)
	}

	// Reject stacked statements: any semicolon followed by more SQL.
	if rest := strings.TrimSpace(strings.TrimSuffix(stripped, ";")); strings.Contains(rest, ";") {
		return fmt.Errorf("multiple statements are not allowed")
	}

	return nil
}

// cteStatementVerb scans past the CTE definition list of a WITH statement
// and returns the verb of the statement the list introduces. Each CTE body
// is a balanced parenthesized group; the first bare word after a group that
// is neither a comma continuation nor AS is the top-level statement.
func cteStatementVerb(query string) (string, error) {
	sc := &sqlScanner{src: query}
	sc.word() // WITH
	for {
		switch c := sc.peekByte(); c {
		case 0:
			return "", fmt.Errorf("incomplete WITH clause")
		case '(':
			if err := sc.skipGroup(); err != nil {
				return "", err
			}
			if sc.peekByte() == ',' {
				sc.pos++
				continue
			}
			if w := sc.word(); w != "" && !strings.EqualFold(w, "as") {
				return w, nil
			}
		case '\'':
			sc.skipQuoted(c)
		default:
			if sc.word() == "" {
				sc.pos++
			}
		}
	}
}

// sqlScanner is a minimal lexer over a single SQL statement: it only
// distinguishes words, quoted regions, comments, and paren groups.
type sqlScanner struct {
	src string
	pos int
}

func (s *sqlScanner) skipNoise() {
	for s.pos < len(s.src) {
		switch {
		case s.src[s.pos] == ' ' || s.src[s.pos] == '\t' || s.src[s.pos] == '\n' || s.src[s.pos] == '\r':
			s.pos++
		case strings.HasPrefix(s.src[s.pos:], "--"):
			idx := strings.IndexByte(s.src[s.pos:], '\n')
			if idx < 0 {
				s.pos = len(s.src)
			} else {
				s.pos += idx + 1
			}
		case strings.HasPrefix(s.src[s.pos:], "/*"):
			idx := strings.Index(s.src[s.pos:], "*/")
			if idx < 0 {
				s.pos = len(s.src)
			} else {
				s.pos += idx + 2
			}
		default:
			return
		}
	}
}

func (s *sqlScanner) peekByte() byte {
	s.skipNoise()
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

// word reads the next keyword or identifier, consuming quoted identifiers
// whole so their contents are never mistaken for keywords.
func (s *sqlScanner) word() string {
	s.skipNoise()
	if s.pos < len(s.src) {
		if c := s.src[s.pos]; c == '"' || c == '`' || c == '[' {
			start := s.pos
			s.skipQuoted(c)
			return s.src[start:s.pos]
		}
	}
	start := s.pos
	for s.pos < len(s.src) && isWordByte(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// skipQuoted consumes a quoted region. Doubled closing quotes escape
// inside string literals and quoted identifiers.
func (s *sqlScanner) skipQuoted(open byte) {
	closer := open
	if open == '[' {
		closer = ']'
	}
	s.pos++
	for s.pos < len(s.src) {
		if s.src[s.pos] == closer {
			if closer != ']' && s.pos+1 < len(s.src) && s.src[s.pos+1] == closer {
				s.pos += 2
				continue
			}
			s.pos++
			return
		}
		s.pos++
	}
}

// skipGroup consumes a balanced parenthesized group, ignoring parens
// inside strings, quoted identifiers, and comments.
func (s *sqlScanner) skipGroup() error {
	if s.peekByte() != '(' {
		return fmt.Errorf("expected parenthesized group")
	}
	depth := 0
	for s.pos < len(s.src) {
		switch c := s.src[s.pos]; c {
		case '(':
			depth++
			s.pos++
		case ')':
			depth--
			s.pos++
			if depth == 0 {
				return nil
			}
		case '\'', '"', '`', '[':
			s.skipQuoted(c)
		case '-', '/':
			before := s.pos
			s.skipNoise()
			if s.pos == before {
				s.pos++
			}
		default:
			s.pos++
		}
	}
	return fmt.Errorf("unbalanced parentheses in WITH clause")
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func stripLeadingComments(query string) string {
	s := strings.TrimSpace(query)
	for {
		switch {
		case strings.HasPrefix(s, "--"):
			idx := strings.IndexByte(s, '\n')
			if idx < 0 {
				return ""
			}
			s = strings.TrimSpace(s[idx+1:])
		case strings.HasPrefix(s, "/*"):
			idx := strings.Index(s, "*/")
			if idx < 0 {
				return ""
			}
			s = strings.TrimSpace(s[idx+2:])
		default:
			return s
		}
	}
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
