package cite

import (
	"strings"
)

// Serialize renders n as markdown under syn. Re-reading the result with
// TryMatch under the same syn yields items equal to n.Items(). A nil syn
// selects the pandoc preset.
func Serialize(n *Node, syn *Syntax) string {
	return SerializeItems(n.items, syn)
}

// SerializeItems renders items as one citation span.
//
// A syntax without bracketed spans can only carry keys: prefixes, suffixes
// and locators are dropped.
func SerializeItems(items []Item, syn *Syntax) string {
	if syn == nil {
		syn = Pandoc()
	}
	if syn.emitBare(items) {
		return joinItems(items, syn, bareItem)
	}
	return syn.open + joinItems(items, syn, bracketedItem) + syn.close
}

// SerializeBracketed renders items inside the open and close delimiters even
// where syn would allow a bare form. It is used where the bare form would be
// glued to a preceding word.
func SerializeBracketed(items []Item, syn *Syntax) string {
	if syn == nil {
		syn = Pandoc()
	}
	if !syn.bracketed {
		return SerializeItems(items, syn)
	}
	return syn.open + joinItems(items, syn, bracketedItem) + syn.close
}

func (s *Syntax) emitBare(items []Item) bool {
	if !s.bare {
		return false
	}
	if !s.bracketed {
		return true
	}
	if len(items) > 1 && s.bracketMultiItem {
		return false
	}
	for _, it := range items {
		if !it.Plain() {
			return false
		}
	}
	return true
}

func joinItems(items []Item, syn *Syntax, render func(*strings.Builder, Item, *Syntax)) string {
	var sb strings.Builder
	for i, it := range items {
		if i > 0 {
			sb.WriteString(syn.itemSeparator)
			sb.WriteByte(' ')
		}
		render(&sb, it, syn)
	}
	return sb.String()
}

func writeKey(sb *strings.Builder, it Item, syn *Syntax) {
	if it.SuppressAuthor && syn.authorSuppression {
		sb.WriteString(syn.suppressionMarker)
	}
	sb.WriteString(syn.sigil)
	sb.WriteString(quoteKey(it.Key, syn))
}

func bareItem(sb *strings.Builder, it Item, syn *Syntax) {
	writeKey(sb, it, syn)
}

func bracketedItem(sb *strings.Builder, it Item, syn *Syntax) {
	if it.Prefix != "" {
		sb.WriteString(escapeText(it.Prefix, syn.prefixSpecials()))
		sb.WriteByte(' ')
	}
	writeKey(sb, it, syn)

	d := syn.locatorDelimiter
	suffix := it.Suffix
	if it.Locator != "" {
		if d == "" {
			// Without a delimiter the locator cannot be told apart; keep it as text.
			suffix = strings.TrimSpace(it.Locator + " " + suffix)
		} else {
			sb.WriteString(d)
			sb.WriteByte(' ')
			sb.WriteString(it.Locator)
			if suffix != "" {
				sb.WriteString(d)
				sb.WriteByte(' ')
				sb.WriteString(escapeText(suffix, syn.suffixSpecials()))
			}
			return
		}
	}
	if suffix == "" {
		return
	}
	escaped := escapeText(suffix, syn.suffixSpecials())
	if d != "" && strings.HasPrefix(escaped, d) {
		escaped = `\` + escaped
	}
	sb.WriteByte(' ')
	sb.WriteString(escaped)
}
