package video

// offlineVideos is served when the catalog API is unreachable on a
// first page, so the browse screen is never empty.
var offlineVideos = []Video{
	{ID: "jfKfPfyJRdk", Title: "lofi hip hop radio - beats to relax/study to", ChannelTitle: "Lofi Girl"},
	{ID: "4xDzrJKXOOY", Title: "Synthwave Radio - beats to chill/game to", ChannelTitle: "Lofi Girl"},
	{ID: "WPni755-Krg", Title: "Deep Focus Music - 4 Hours of Ambient Study", ChannelTitle: "Quiet Quest"},
	{ID: "lTRiuFIWV54", Title: "1 Hour Study With Me - Pomodoro 25/5", ChannelTitle: "Study Vibes"},
	{ID: "DWcJFNfaw9c", Title: "Rainy Jazz Cafe - Relaxing Background Music", ChannelTitle: "Cafe Music BGM"},
	{ID: "n61ULEU7CO0", Title: "Best of Classical Music for Studying", ChannelTitle: "HALIDONMUSIC"},
}

// fallbackPage returns the static offline list as a terminal page.
func fallbackPage() *Page {
	videos := make([]Video, len(offlineVideos))
	copy(videos, offlineVideos)
	return &Page{Videos: videos}
}
