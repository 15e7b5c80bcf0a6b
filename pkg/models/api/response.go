package api

// Response is a rendered body ready to be written by a transport
type Response struct {
	Body        []byte
	ContentType string
	Status      int
	// Filename is set for downloadable formats
	Filename string
}

type Error struct {
	Error string `json:"error"`
}
