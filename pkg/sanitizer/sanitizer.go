package sanitizer

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

const (
	MaxCommentLength = 1000
	MaxNameLength    = 100
)

// SanitizeComment prepares review text: control characters removed,
// whitespace collapsed, capped at MaxCommentLength runes.
func SanitizeComment(input string) string {
	p := Pipeline{
		StripControl,
		TrimAndNormalize,
		func(s string) string { return Truncate(s, MaxCommentLength) },
	}
	return p.Apply(input)
}

// SanitizeDisplayName is used for names copied into embedded documents,
// such as the reviewer's username on a review.
func SanitizeDisplayName(input string) string {
	p := Pipeline{
		StripControl,
		TrimAndNormalize,
		func(s string) string { return Truncate(s, MaxNameLength) },
	}
	return p.Apply(input)
}
