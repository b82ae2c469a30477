package types

import (
	"encoding/json"
	"strconv"
)

// Rating is a review score as the backend sends it. The backend serializes
// decimals either as JSON numbers or as strings, so the raw text is kept.
type Rating string

func (r *Rating) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Rating(s)
		return nil
	}
	*r = Rating(data)
	return nil
}

func (r Rating) MarshalJSON() ([]byte, error) {
	if r == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseFloat(string(r), 64); err != nil {
		return json.Marshal(string(r))
	}
	return []byte(r), nil
}

// Float returns the rating as a number, or 0 if it cannot be parsed.
func (r Rating) Float() float64 {
	f, err := strconv.ParseFloat(string(r), 64)
	if err != nil {
		return 0
	}
	return f
}

type Movie struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Release   *string  `json:"release"`
	Runtime   *int     `json:"runtime"`
	Synopsis  *string  `json:"synopsis"`
	PosterURL *string  `json:"poster_url"`
	Created   string   `json:"created_at"`
	Genres    []string `json:"genres"`
	Tags      []string `json:"tags"`
}

type MovieListResponse struct {
	Movies   []Movie `json:"movies"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

type Review struct {
	ID            int     `json:"id"`
	UserID        string  `json:"user_id"`
	MovieID       int     `json:"movie_id"`
	Rating        Rating  `json:"rating"`
	Content       *string `json:"content"`
	Created       string  `json:"created_at"`
	LikesCount    int     `json:"likes_count"`
	CommentsCount int     `json:"comments_count"`
}

type ReviewListResponse struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
}

type Comment struct {
	ID       int    `json:"id"`
	ReviewID int    `json:"review_id"`
	UserID   string `json:"user_id"`
	Content  string `json:"content"`
	Created  string `json:"created_at"`
}

type User struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	AvatarText *string `json:"avatar_text"`
	Created    string  `json:"created_at"`
}

type TasteAnalysis struct {
	UserID      string  `json:"user_id"`
	SummaryText *string `json:"summary_text"`
	Updated     string  `json:"updated_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type KakaoLoginResponse struct {
	AuthURL string `json:"auth_url"`
}

type KakaoCallbackResponse struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	AvatarText  string `json:"avatar_text"`
	AccessToken string `json:"access_token"`
}

// Request/Response types
type CreateReviewRequest struct {
	Rating  float64 `json:"rating"`
	Content *string `json:"content,omitempty"`
}

type UpdateReviewRequest struct {
	Rating  *float64 `json:"rating,omitempty"`
	Content *string  `json:"content,omitempty"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type CreateUserRequest struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	AvatarText *string `json:"avatar_text,omitempty"`
}

type UpdateUserRequest struct {
	Name       *string `json:"name,omitempty"`
	AvatarText *string `json:"avatar_text,omitempty"`
}

// Movie list sort orders accepted by the backend.
const (
	SortLatest  = "latest"
	SortPopular = "popular"
	SortRating  = "rating"
)

// MovieListParams filters the movie catalog. Nil fields are left out of the query.
type MovieListParams struct {
	Query    *string
	Genres   *string
	Category *string
	Sort     *string
	Page     *int
	PageSize *int
}

type PageParams struct {
	Page     *int
	PageSize *int
}

type CommentListParams struct {
	Skip  *int
	Limit *int
}

// String and Int return pointers for optional parameters.
func String(s string) *string { return &s }

func Int(i int) *int { return &i }

func Float(f float64) *float64 { return &f }
