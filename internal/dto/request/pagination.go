package request

// CursorRequest carries list-endpoint paging parameters. Cursor is the
// opaque page token from a previous response; an empty or unreadable token
// yields the first page. IncludeTotal triggers a separate count query.
type CursorRequest struct {
	Cursor       string `json:"cursor"`
	Limit        int    `json:"limit" validate:"omitempty,min=1,max=100"`
	IncludeTotal bool   `json:"include_total"`
}
