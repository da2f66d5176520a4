// Package styles maps node type identifiers to draw.io visual attributes.
//
// A [Resolver] is a pure lookup from a type identifier to a [Style]. The
// built-in [Table] covers the grouping shapes (account, region, VPC, subnet,
// availability zone) and the edge style; every other identifier falls back
// to a generic resource icon. The [Catalog] augments the table with icons
// from a remotely fetched SVG bundle, populated at most once per process.
package styles

// EdgeType is the reserved identifier for edge styling.
const EdgeType = "edge"

// DefaultIconSize is the width and height, in drawing units, used for any
// icon that does not declare its own dimensions.
const DefaultIconSize = 43

// defaultIconStyle is the generic resource icon used for unknown types.
const defaultIconStyle = "gradientDirection=north;outlineConnect=0;fontColor=#232F3E;gradientColor=#505863;fillColor=#1E262E;strokeColor=#ffffff;dashed=0;verticalLabelPosition=bottom;verticalAlign=top;align=center;html=1;fontSize=11;fontStyle=0;fontFamily=Tahoma;aspect=fixed;shape=mxgraph.aws4.resourceIcon;resIcon=mxgraph.aws4.general;"

// Style holds the visual attributes for one type identifier.
// Width and Height are zero for container styles, whose extent is derived
// from their children by the layout engine.
type Style struct {
	Style  string
	Width  float64
	Height float64
}

// HasSize reports whether the style declares fixed dimensions.
func (s Style) HasSize() bool { return s.Width > 0 && s.Height > 0 }

// Resolver resolves a type identifier to its visual style.
// Implementations must be deterministic for a given process lifetime and
// safe for concurrent use.
type Resolver interface {
	Resolve(typeID string) Style
}

// Default returns the fallback style for unresolved type identifiers.
func Default() Style {
	return Style{Style: defaultIconStyle, Width: DefaultIconSize, Height: DefaultIconSize}
}

// Table is a static Resolver backed by a map. Unknown identifiers resolve
// to [Default], never to an error.
type Table map[string]Style

// Resolve implements Resolver.
func (t Table) Resolve(typeID string) Style {
	if s, ok := t[typeID]; ok {
		return s
	}
	return Default()
}

// Builtin returns the predefined style table. The style strings come from
// draw.io's AWS shape library and must not be altered; the viewer matches
// them verbatim.
func Builtin() Table {
	return Table{
		"account": {
			Style: "points=[[0,0],[0.25,0],[0.5,0],[0.75,0],[1,0],[1,0.25],[1,0.5],[1,0.75],[1,1],[0.75,1],[0.5,1],[0.25,1],[0,1],[0,0.75],[0,0.5],[0,0.25]];outlineConnect=0;gradientColor=none;html=1;whiteSpace=wrap;fontSize=11;fontStyle=0;fontFamily=Tahoma;shape=mxgraph.aws4.group;grIcon=mxgraph.aws4.group_aws_cloud_alt;strokeColor=#232F3E;fillColor=none;verticalAlign=top;align=left;spacingLeft=30;fontColor=#232F3E;dashed=0;",
		},
		"availabilityZone": {
			Style: "fillColor=none;strokeColor=#147EBA;dashed=1;verticalAlign=top;fontSize=11;fontStyle=0;fontColor=#147EBA;fontFamily=Tahoma;",
		},
		EdgeType: {
			Style: "html=1;endArrow=block;elbow=vertical;startArrow=none;endFill=1;strokeColor=#545B64;rounded=0;jumpStyle=gap;opacity=80;",
		},
		"region": {
			Style: "points=[[0,0],[0.25,0],[0.5,0],[0.75,0],[1,0],[1,0.25],[1,0.5],[1,0.75],[1,1],[0.75,1],[0.5,1],[0.25,1],[0,1],[0,0.75],[0,0.5],[0,0.25]];outlineConnect=0;gradientColor=none;html=1;whiteSpace=wrap;fontSize=11;fontStyle=0;fontFamily=Tahoma;shape=mxgraph.aws4.group;grIcon=mxgraph.aws4.group_region;strokeColor=#147EBA;fillColor=none;verticalAlign=top;align=left;spacingLeft=30;fontColor=#147EBA;dashed=0;",
		},
		"subnet": {
			Style: "points=[[0,0],[0.25,0],[0.5,0],[0.75,0],[1,0],[1,0.25],[1,0.5],[1,0.75],[1,1],[0.75,1],[0.5,1],[0.25,1],[0,1],[0,0.75],[0,0.5],[0,0.25]];outlineConnect=0;gradientColor=none;html=1;whiteSpace=wrap;fontSize=11;fontStyle=0;fontFamily=Tahoma;shape=mxgraph.aws4.group;grIcon=mxgraph.aws4.group_security_group;grStroke=0;strokeColor=#248814;fillColor=#E9F3E6;verticalAlign=top;align=left;spacingLeft=30;fontColor=#248814;dashed=0;",
		},
		"type": {
			Style: "fillColor=none;strokeColor=#5A6C86;dashed=1;verticalAlign=top;fontSize=11;fontStyle=0;fontColor=#5A6C86;fontFamily=Tahoma;",
		},
		"vpc": {
			Style: "points=[[0,0],[0.25,0],[0.5,0],[0.75,0],[1,0],[1,0.25],[1,0.5],[1,0.75],[1,1],[0.75,1],[0.5,1],[0.25,1],[0,1],[0,0.75],[0,0.5],[0,0.25]];outlineConnect=0;gradientColor=none;html=1;whiteSpace=wrap;fontSize=11;fontStyle=0;fontFamily=Tahoma;shape=mxgraph.aws4.group;grIcon=mxgraph.aws4.group_vpc;strokeColor=#248814;fillColor=none;verticalAlign=top;align=left;spacingLeft=30;fontColor=#AAB7B8;dashed=0;",
		},
	}
}
