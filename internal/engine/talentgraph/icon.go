package talentgraph

import (
	"strings"

	"github.com/KirkDiggler/talent-api/internal/pkg/rowfield"
)

// IconBaseURL serves the large icon renders keyed by lower-case icon name.
const IconBaseURL = "https://wow.zamimg.com/images/wow/icons/large/"

var (
	iconURLKeys  = []string{"IconUrl", "IconURL", "iconUrl", "Icon", "icon"}
	textureKeys  = []string{"TextureFilename", "textureFilename", "IconPath", "iconPath"}
	iconPrefixes = []string{`interface\icons\`, "interface/icons/", "interfaceicons"}
)

// IconName reduces a client texture path ("Interface\Icons\Spell_Frost_FrostBolt02")
// to its bare icon name.
func IconName(texture string) string {
	texture = strings.TrimSpace(texture)
	if i := strings.LastIndexAny(texture, `/\`); i >= 0 {
		return texture[i+1:]
	}
	lower := strings.ToLower(texture)
	for _, prefix := range iconPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return texture[len(prefix):]
		}
	}
	return texture
}

// IconPath is the client texture path for an icon name.
func IconPath(name string) string {
	if name == "" {
		return ""
	}
	return `Interface\Icons\` + name
}

// IconURL is the public render URL for an icon name.
func IconURL(name string) string {
	if name == "" {
		return ""
	}
	return IconBaseURL + strings.ToLower(name) + ".jpg"
}

// RowIcon returns the icon URL carried by a spell or tab row, deriving one
// from its texture path when no URL column is present.
func RowIcon(row rowfield.Row) string {
	if u := strings.TrimSpace(rowfield.String(row, iconURLKeys...)); u != "" {
		return u
	}
	return IconURL(IconName(rowfield.String(row, textureKeys...)))
}
