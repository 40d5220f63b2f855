package places

// Local store keys.
const (
	KeyLastPhoto = "@placebook:photo"
	KeyLastTitle = "@placebook:title"
	KeyPhotoList = "photos"
	KeyPlaceList = "@places"
)
