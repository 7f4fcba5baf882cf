package codeforces

// envelope is the wrapper every Codeforces API method answers with.
type envelope struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Result  []User `json:"result"`
}

// User is the subset of the user.info result object the widget consumes.
// Ratings are pointers because unrated handles omit them.
type User struct {
	Handle    string `json:"handle"`
	Rating    *int   `json:"rating"`
	MaxRating *int   `json:"maxRating"`
	MaxRank   string `json:"maxRank"`
	Avatar    string `json:"avatar"`
}

const statusOK = "OK"
