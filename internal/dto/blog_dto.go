package dto

type PostRequest struct {
	Title   string `json:"title" validate:"required,min=5,max=255"`
	Content string `json:"content" validate:"required,min=10"`
}

type CommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

type LikeToggleResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}
