package clickup

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	apperrors "github.com/auditops/audit-relay/internal/errors"
)

// Normalize folds a display name for comparison: decompose, strip combining
// marks, lowercase, drop whitespace. "Équipes Technique" and
// "equipes   technique" both fold to "equipestechnique".
func Normalize(s string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// FindSpace returns the first space whose normalized name equals the
// normalized target, or ErrResourceNotFound naming the target.
func FindSpace(spaces []Space, name string) (Space, error) {
	target := Normalize(name)
	for _, space := range spaces {
		if Normalize(space.Name) == target {
			return space, nil
		}
	}
	return Space{}, apperrors.Wrapf(apperrors.ErrResourceNotFound, "space %q", name)
}

// FindList returns the first list whose normalized name equals the
// normalized target, or ErrResourceNotFound naming the target.
func FindList(lists []List, name string) (List, error) {
	target := Normalize(name)
	for _, list := range lists {
		if Normalize(list.Name) == target {
			return list, nil
		}
	}
	return List{}, apperrors.Wrapf(apperrors.ErrResourceNotFound, "list %q", name)
}
