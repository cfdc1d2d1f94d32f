package like

// Like is one (post, user) like row. The service keeps at most one row
// per pair; this layer checks existence before writing rather than
// relying on a visible constraint.
type Like struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
	UserID string `json:"user_id"`
}

// Status is the viewer's like state for one post. It starts Unknown and
// becomes Liked or NotLiked only after a definitive existence answer;
// a failed check leaves it Unknown instead of being coerced to NotLiked.
type Status int

const (
	StatusUnknown Status = iota
	StatusNotLiked
	StatusLiked
)

func (s Status) String() string {
	switch s {
	case StatusLiked:
		return "liked"
	case StatusNotLiked:
		return "not-liked"
	default:
		return "unknown"
	}
}
