package api

type Comment struct {
	ID        int64  `json:"id"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

type CommentProto struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}
