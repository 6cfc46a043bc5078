package ports

// ViewerOpener hands a scene to the desktop's default viewer
type ViewerOpener interface {
	// Open starts the viewer for a scene URI and returns without waiting
	Open(uri string) error
}
