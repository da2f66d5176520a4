package encode

// Viewer address pieces. diagrams.net is used instead of draw.io because
// of known .io registry issues; the title parameter and #R fragment marker
// are part of the viewer's URL contract.
const (
	ViewerBase     = "https://app.diagrams.net"
	viewerTitle    = "?title=AWS%20Architecture%20Diagram.xml"
	fragmentMarker = "#R"
)

// ViewerURL assembles the final diagram hyperlink from an encoded token.
func ViewerURL(token string) string {
	return ViewerBase + viewerTitle + fragmentMarker + token
}
