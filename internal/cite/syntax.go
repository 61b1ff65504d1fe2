package cite

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	derrors "git.home.luguber.info/inful/citemark/internal/foundation/errors"
	"git.home.luguber.info/inful/citemark/internal/foundation/normalization"
	"github.com/hashicorp/go-multierror"
	"github.com/yuin/goldmark/util"
)

// Variant names a citation syntax preset.
type Variant string

const (
	VariantPandoc Variant = "pandoc"
	VariantAlt    Variant = "alt"
	VariantCustom Variant = "custom"
)

var variantNormalizer = normalization.NewNormalizer(map[string]Variant{
	"pandoc": VariantPandoc,
	"alt":    VariantAlt,
	"custom": VariantCustom,
}, VariantPandoc)

// Variants lists the accepted variant names.
func Variants() []string {
	return variantNormalizer.ValidKeys()
}

// DefaultLocatorTerms are the locator labels recognized after the locator
// delimiter, following pandoc's English term list.
var DefaultLocatorTerms = []string{
	"book", "books", "bk.", "bks.",
	"chapter", "chapters", "chap.", "chaps.",
	"column", "columns", "col.", "cols.",
	"figure", "figures", "fig.", "figs.",
	"folio", "folios", "fol.", "fols.",
	"number", "numbers", "no.", "nos.",
	"line", "lines", "l.", "ll.",
	"note", "notes", "n.", "nn.",
	"opus", "opera", "op.", "opp.",
	"page", "pages", "p.", "pp.",
	"paragraph", "paragraphs", "para.", "paras.", "¶", "¶¶",
	"part", "parts", "pt.", "pts.",
	"section", "sections", "sec.", "secs.", "§", "§§",
	"sub verbo", "sub verbis", "s.v.", "s.vv.",
	"verse", "verses", "v.", "vv.",
	"volume", "volumes", "vol.", "vols.",
}

// Options overrides fields of a preset. Nil pointers and empty slices inherit
// the preset value; Variant selects the preset (pandoc when empty).
type Options struct {
	Variant           string   `yaml:"variant" json:"variant,omitempty"`
	Open              *string  `yaml:"open,omitempty" json:"open,omitempty"`
	Close             *string  `yaml:"close,omitempty" json:"close,omitempty"`
	Sigil             *string  `yaml:"sigil,omitempty" json:"sigil,omitempty"`
	ItemSeparator     *string  `yaml:"item_separator,omitempty" json:"itemSeparator,omitempty"`
	SuppressionMarker *string  `yaml:"suppression_marker,omitempty" json:"suppressionMarker,omitempty"`
	LocatorDelimiter  *string  `yaml:"locator_delimiter,omitempty" json:"locatorDelimiter,omitempty"`
	LocatorTerms      []string `yaml:"locator_terms,omitempty" json:"locatorTerms,omitempty"`
	Bracketed         *bool    `yaml:"bracketed,omitempty" json:"bracketed,omitempty"`
	Bare              *bool    `yaml:"bare,omitempty" json:"bare,omitempty"`
	BracketMultiItem  *bool    `yaml:"bracket_multi_item,omitempty" json:"bracketMultiItem,omitempty"`
	AuthorSuppression *bool    `yaml:"author_suppression,omitempty" json:"authorSuppression,omitempty"`
	Strict            *bool    `yaml:"strict,omitempty" json:"strict,omitempty"`
}

// String returns a pointer to s, for filling Options literals.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for filling Options literals.
func Bool(b bool) *bool { return &b }

// Syntax is a resolved, validated citation syntax. It is never mutated after
// construction.
type Syntax struct {
	variant           Variant
	open              string
	close             string
	sigil             string
	itemSeparator     string
	suppressionMarker string
	locatorDelimiter  string
	locatorTerms      []string
	bracketed         bool
	bare              bool
	bracketMultiItem  bool
	authorSuppression bool
	strict            bool
}

var (
	pandocSyntax = mustSyntax(Options{Variant: string(VariantPandoc)})
	altSyntax    = mustSyntax(Options{Variant: string(VariantAlt)})
)

// Pandoc returns the shared pandoc preset: [see @key, p. 5; -@other].
func Pandoc() *Syntax { return pandocSyntax }

// Alt returns the shared alt preset: bare @key tokens plus bracketed clusters.
func Alt() *Syntax { return altSyntax }

// Preset resolves a preset by name.
func Preset(name string) (*Syntax, error) {
	return NewSyntax(Options{Variant: name})
}

func mustSyntax(opts Options) *Syntax {
	s, err := NewSyntax(opts)
	if err != nil {
		panic(err)
	}
	return s
}

func baseSyntax(v Variant) Syntax {
	s := Syntax{
		variant:           v,
		open:              "[",
		close:             "]",
		sigil:             "@",
		itemSeparator:     ";",
		suppressionMarker: "-",
		locatorDelimiter:  ",",
		locatorTerms:      DefaultLocatorTerms,
		bracketed:         true,
		authorSuppression: true,
	}
	if v == VariantAlt {
		s.bare = true
	}
	return s
}

// NewSyntax merges opts over the preset named by opts.Variant and validates
// the result. All problems are reported together in one config error.
func NewSyntax(opts Options) (*Syntax, error) {
	variant, err := variantNormalizer.NormalizeWithError(opts.Variant)
	if err != nil {
		return nil, derrors.ConfigError("unknown citation syntax variant").
			WithCause(fmt.Errorf("%w: %w", ErrConfig, err)).
			WithContext("variant", opts.Variant).
			Build()
	}

	s := baseSyntax(variant)
	overrideString(&s.open, opts.Open)
	overrideString(&s.close, opts.Close)
	overrideString(&s.sigil, opts.Sigil)
	overrideString(&s.itemSeparator, opts.ItemSeparator)
	overrideString(&s.suppressionMarker, opts.SuppressionMarker)
	overrideString(&s.locatorDelimiter, opts.LocatorDelimiter)
	overrideBool(&s.bracketed, opts.Bracketed)
	overrideBool(&s.bare, opts.Bare)
	overrideBool(&s.bracketMultiItem, opts.BracketMultiItem)
	overrideBool(&s.authorSuppression, opts.AuthorSuppression)
	overrideBool(&s.strict, opts.Strict)
	if len(opts.LocatorTerms) > 0 {
		s.locatorTerms = opts.LocatorTerms
	}
	s.locatorTerms = normalizeTerms(s.locatorTerms)

	if err := s.validate(); err != nil {
		return nil, derrors.ConfigError("invalid citation syntax").
			WithCause(fmt.Errorf("%w: %w", ErrConfig, err)).
			WithContext("variant", string(variant)).
			Build()
	}
	return &s, nil
}

func overrideString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func overrideBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// normalizeTerms drops blanks and duplicates and orders terms longest first,
// so "pp." is tried before "p.".
func normalizeTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

type delimiter struct {
	name  string
	value string
}

func (s *Syntax) delimiters() []delimiter {
	return []delimiter{
		{"open", s.open},
		{"close", s.close},
		{"sigil", s.sigil},
		{"item_separator", s.itemSeparator},
		{"suppression_marker", s.suppressionMarker},
		{"locator_delimiter", s.locatorDelimiter},
	}
}

func (s *Syntax) validate() error {
	var result *multierror.Error

	if s.sigil == "" {
		result = multierror.Append(result, errors.New("sigil must not be empty"))
	}
	if s.itemSeparator == "" {
		result = multierror.Append(result, errors.New("item_separator must not be empty"))
	}
	if !s.bracketed && !s.bare {
		result = multierror.Append(result, errors.New("at least one of bracketed or bare spans must be enabled"))
	}
	if s.bracketed && (s.open == "" || s.close == "") {
		result = multierror.Append(result, errors.New("bracketed spans require open and close delimiters"))
	}

	delims := s.delimiters()
	for _, d := range delims {
		if d.value == "" {
			continue
		}
		for i := 0; i < len(d.value); i++ {
			c := d.value[i]
			if c == '\\' || !util.IsPunct(c) {
				result = multierror.Append(result, fmt.Errorf("%s %q must consist of ASCII punctuation other than backslash", d.name, d.value))
				break
			}
		}
	}
	for i := 0; i < len(delims); i++ {
		for j := i + 1; j < len(delims); j++ {
			a, b := delims[i], delims[j]
			if a.value == "" || b.value == "" {
				continue
			}
			if strings.HasPrefix(a.value, b.value) || strings.HasPrefix(b.value, a.value) {
				result = multierror.Append(result, fmt.Errorf("%s %q collides with %s %q", a.name, a.value, b.name, b.value))
			}
		}
	}
	for _, t := range s.locatorTerms {
		if strings.ContainsAny(t, "\r\n") {
			result = multierror.Append(result, fmt.Errorf("locator term %q contains a line break", t))
		}
	}

	return result.ErrorOrNil()
}

// Variant returns the preset this syntax was derived from.
func (s *Syntax) Variant() Variant { return s.variant }

// Open returns the opening delimiter of bracketed spans.
func (s *Syntax) Open() string { return s.open }

// Close returns the closing delimiter of bracketed spans.
func (s *Syntax) Close() string { return s.close }

// Sigil returns the marker introducing a key.
func (s *Syntax) Sigil() string { return s.sigil }

// ItemSeparator returns the separator between items of one span.
func (s *Syntax) ItemSeparator() string { return s.itemSeparator }

// SuppressionMarker returns the suppress-author prefix, or "" when disabled.
func (s *Syntax) SuppressionMarker() string { return s.suppressionMarker }

// LocatorDelimiter returns the delimiter introducing a locator, or "" when disabled.
func (s *Syntax) LocatorDelimiter() string { return s.locatorDelimiter }

// LocatorTerms returns the recognized locator labels, longest first.
func (s *Syntax) LocatorTerms() []string { return append([]string(nil), s.locatorTerms...) }

// Bracketed reports whether open/close delimited clusters are recognized.
func (s *Syntax) Bracketed() bool { return s.bracketed }

// Bare reports whether bare @key tokens are recognized.
func (s *Syntax) Bare() bool { return s.bare }

// BracketMultiItem reports whether spans with several items are always bracketed.
func (s *Syntax) BracketMultiItem() bool { return s.bracketMultiItem }

// AuthorSuppression reports whether the suppression marker is recognized and
// emitted. When off the marker is ordinary text.
func (s *Syntax) AuthorSuppression() bool { return s.authorSuppression }

// Strict reports whether malformed spans are errors instead of plain text.
func (s *Syntax) Strict() bool { return s.strict }

// WithStrict returns a copy of s with strict parsing switched on or off.
func (s *Syntax) WithStrict(strict bool) *Syntax {
	c := *s
	c.strict = strict
	return &c
}

// String returns the variant name.
func (s *Syntax) String() string { return string(s.variant) }

// isStructural reports whether c belongs to one of the span delimiters that
// may not continue a plain key.
func (s *Syntax) isStructural(c byte) bool {
	for _, d := range []string{s.open, s.close, s.sigil, s.itemSeparator, s.locatorDelimiter} {
		if strings.IndexByte(d, c) >= 0 {
			return true
		}
	}
	return false
}

// prefixSpecials are the bytes escaped in prefix text.
func (s *Syntax) prefixSpecials() string {
	return s.open + s.close + s.itemSeparator + s.sigil
}

// suffixSpecials are the bytes escaped in suffix text.
func (s *Syntax) suffixSpecials() string {
	return s.open + s.close + s.itemSeparator
}

// triggers returns the first bytes at which a span may start.
func (s *Syntax) triggers() []byte {
	var out []byte
	add := func(v string) {
		if v == "" {
			return
		}
		for _, c := range out {
			if c == v[0] {
				return
			}
		}
		out = append(out, v[0])
	}
	if s.bracketed {
		add(s.open)
	}
	if s.bare {
		add(s.sigil)
		if s.authorSuppression {
			add(s.suppressionMarker)
		}
	}
	return out
}

// Triggers returns the bytes a host tokenizer should hand to TryMatch.
func (s *Syntax) Triggers() []byte { return s.triggers() }
