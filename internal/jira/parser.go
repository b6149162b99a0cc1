// Package jira normalizes user- and commit-supplied tokens into canonical
// Jira ticket keys. It performs no I/O and holds no mutable state; every
// exported function is a pure string transform over ASCII input.
package jira

import (
	"regexp"
	"strings"

	twigerrors "github.com/eddieland/twig/internal/errors"
)

// Mode selects how permissive ticket-key recognition is.
type Mode int

const (
	// ModeFlexible accepts "abc-123" and "abc123" and upper-cases the result. Default.
	ModeFlexible Mode = iota
	// ModeStrict accepts only the canonical "ABC-123" shape.
	ModeStrict
)

var (
	strictPattern           = regexp.MustCompile(`^[A-Z]{2,}-[0-9]+$`)
	// The flexible patterns accept a one-letter project so that the
	// too-short case reports ProjectTooShort rather than a generic
	// format error.
	flexibleHyphenPattern   = regexp.MustCompile(`^([A-Za-z]+)-([0-9]+)$`)
	flexibleNoHyphenPattern = regexp.MustCompile(`^([A-Za-z]+)([0-9]+)$`)

	commitMessagePattern       = regexp.MustCompile(`^([A-Za-z]{2,}-?[0-9]+):`)
	commitMessageStrictPattern = regexp.MustCompile(`^([A-Z]{2,}-[0-9]+):`)
)

// Config configures a Parser. Host is the Jira base URL (see
// internal/config for where JIRA_HOST/jira.toml feed into it); it is not
// consulted by Parse itself but is carried for callers building issue URLs.
// Username and APIToken are not used by Parse either; they are carried
// through so a Client can be constructed from the same loaded config.
type Config struct {
	Mode     Mode
	Host     string
	Username string
	APIToken string
}

// DefaultConfig returns the flexible-mode default.
func DefaultConfig() Config {
	return Config{Mode: ModeFlexible}
}

// Parser normalizes tokens to canonical "PROJECT-NUMBER" ticket keys.
type Parser struct {
	config Config
}

// New constructs a Parser with an explicit config.
func New(config Config) *Parser {
	return &Parser{config: config}
}

// NewDefault constructs a flexible-mode Parser.
func NewDefault() *Parser {
	return &Parser{config: DefaultConfig()}
}

// NewFlexible constructs a Parser explicitly in flexible mode.
func NewFlexible() *Parser {
	return &Parser{config: Config{Mode: ModeFlexible}}
}

// NewStrict constructs a Parser explicitly in strict mode.
func NewStrict() *Parser {
	return &Parser{config: Config{Mode: ModeStrict}}
}

// Config returns the parser's current configuration.
func (p *Parser) Config() Config {
	return p.config
}

// SetConfig replaces the parser's configuration.
func (p *Parser) SetConfig(c Config) {
	p.config = c
}

// Parse normalizes token according to the parser's configured mode.
func (p *Parser) Parse(token string) (string, error) {
	if p.config.Mode == ModeStrict {
		return p.ParseStrict(token)
	}
	return p.ParseFlexible(token)
}

// ParseStrict accepts only "^[A-Z]{2,}-[0-9]+$".
func (p *Parser) ParseStrict(token string) (string, error) {
	if token == "" {
		return "", twigerrors.NewJiraParseError(twigerrors.ErrJiraInvalidFormat, token)
	}
	if strictPattern.MatchString(token) {
		return token, nil
	}
	return "", twigerrors.NewJiraParseError(twigerrors.ErrJiraInvalidFormat, token)
}

// ParseFlexible accepts "abc-123" or "abc123", normalizing the project
// prefix to upper case and always inserting a hyphen.
func (p *Parser) ParseFlexible(token string) (string, error) {
	if token == "" {
		return "", twigerrors.NewJiraParseError(twigerrors.ErrJiraInvalidFormat, token)
	}

	if m := flexibleHyphenPattern.FindStringSubmatch(token); m != nil {
		return normalize(m[1], m[2], token)
	}
	if m := flexibleNoHyphenPattern.FindStringSubmatch(token); m != nil {
		return normalize(m[1], m[2], token)
	}

	return "", twigerrors.NewJiraParseError(twigerrors.ErrJiraInvalidFormat, token)
}

func normalize(project, number, original string) (string, error) {
	if len(project) < 2 {
		return "", twigerrors.NewJiraParseError(twigerrors.ErrJiraProjectTooShort, original)
	}
	if number == "" {
		return "", twigerrors.NewJiraParseError(twigerrors.ErrJiraMissingNumber, original)
	}
	return strings.ToUpper(project) + "-" + number, nil
}

// IsValid reports whether token parses successfully under the parser's mode.
func (p *Parser) IsValid(token string) bool {
	_, err := p.Parse(token)
	return err == nil
}

// Normalize is Parse without returning the error kind detail, kept for
// call sites that only care about the canonical form or failure.
func (p *Parser) Normalize(token string) (string, bool) {
	key, err := p.Parse(token)
	return key, err == nil
}

// ExtractFromCommitMessage scans the lead of a commit summary for a ticket
// reference of the form "KEY:" at line start, then reparses the match
// through Parse to normalize it. Returns "", false when no match is found.
func (p *Parser) ExtractFromCommitMessage(message string) (string, bool) {
	firstLine := message
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		firstLine = message[:idx]
	}

	var pattern *regexp.Regexp
	if p.config.Mode == ModeStrict {
		pattern = commitMessageStrictPattern
	} else {
		pattern = commitMessagePattern
	}

	m := pattern.FindStringSubmatch(firstLine)
	if m == nil {
		return "", false
	}

	key, err := p.Parse(m[1])
	if err != nil {
		return "", false
	}
	return key, true
}
