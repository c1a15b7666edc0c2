package recsapi

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// MovieID accepts both numeric and string identifiers from the server
type MovieID string

// UnmarshalJSON normalizes 42 and "42" to the same id
func (id *MovieID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = MovieID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*id = MovieID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = MovieID(n.String())
	return nil
}

// Movie is the wire form of a catalog entry
type Movie struct {
	MovieID     MovieID `json:"movie_id"`
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Year        int     `json:"year"`
	Description string  `json:"description"`
	Director    string  `json:"director"`
}

// RecommendationsResponse is the body of GET /recommendations/{movie_id}
type RecommendationsResponse struct {
	MovieID         MovieID `json:"movie_id,omitempty"`
	MovieTitle      string  `json:"movie_title"`
	Recommendations []Movie `json:"recommendations"`
}
