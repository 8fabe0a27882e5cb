package domain

// Item is a saved bookmark as returned by the bookmarking service.
type Item struct {
	ID    string
	URL   string
	Title string
}

// Collection is a curated public list from the bookmarking service catalog.
type Collection struct {
	Slug     string
	Title    string
	ShortURL string
	Intro    string
}
