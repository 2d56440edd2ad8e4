package catalog

import (
	"sort"
	"strings"

	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/hansbonini/gcmtools/pkg/gcm"
)

type character struct {
	key  string
	name string
}

// Character file prefixes, from DRGN's DAT Texture Wizard.
var characterPrefixes = map[string]character{
	"Bo": {"MaleWireframe", "[Boy] Male Wireframe"},
	"Ca": {"CaptainFalcon", "Captain Falcon"},
	"Ch": {"CrazyHand", "Crazy Hand"},
	"Cl": {"YoungLink", "Child/Young Link"},
	"Co": {"Common", "Common to the cast"},
	"Dk": {"DonkeyKong", "Donkey Kong"},
	"Dr": {"DrMario", "Dr. Mario"},
	"Fc": {"Falco", "Falco"},
	"Fe": {"Roy", "[Fire Emblem] Roy"},
	"Fx": {"Fox", "Fox"},
	"Gk": {"GigaBowser", "[GigaKoopa] GigaBowser"},
	"Gl": {"FemaleWireframe", "[Girl] Female Wireframe"},
	"Gn": {"Ganondorf", "Ganondorf"},
	"Gw": {"GameNWatch", "Game 'n Watch"},
	"Ic": {"IceClimbers", "Ice Climbers"},
	"Kb": {"Kirby", "Kirby"},
	"Kp": {"Bowser", "[Koopa] Bowser"},
	"Lg": {"Luigi", "Luigi"},
	"Lk": {"Link", "Link"},
	"Mh": {"MasterHand", "Master Hand"},
	"Mn": {"Menus", "Menus Data"},
	"Mr": {"Mario", "Mario"},
	"Ms": {"Marth", "[Mars] Marth"},
	"Mt": {"Mewtwo", "Mewtwo"},
	"Nn": {"IceClimbersNana", "[Nana] Ice Climbers"},
	"Ns": {"Ness", "Ness"},
	"Pc": {"Pichu", "Pichu"},
	"Pe": {"Peach", "Peach"},
	"Pk": {"Pikachu", "Pikachu"},
	"Pn": {"IceClimbersPair", "[Popo/Nana] Ice Climbers"},
	"Pp": {"IceClimbersPopo", "[Popo] Ice Climbers"},
	"Pr": {"Jigglypuff", "Jigglypuff"},
	"Sb": {"SandBag", "SandBag"},
	"Sk": {"Sheik", "Sheik"},
	"Ss": {"Samus", "Samus"},
	"Wf": {"Wolf", "Wolf"},
	"Ys": {"Yoshi", "Yoshi"},
	"Zd": {"Zelda", "Zelda"},
}

var costumeCodes = map[string]string{
	"Nr": "Neutral costume.",
	"Bk": "Black costume.",
	"Bu": "Blue costume.",
	"Gr": "Green costume.",
	"Gy": "Gray costume.",
	"La": "Lavender costume.",
	"Or": "Orange costume.",
	"Pi": "Pink costume.",
	"Re": "Red costume.",
	"Wh": "White costume.",
	"Ye": "Yellow costume.",
	"AJ": "Animation data.",
}

// Generate builds a catalog from the character files (Pl*.dat) on a disc.
func Generate(files []gcm.Node, game string) *Catalog {
	c := &Catalog{Version: 1, Game: game, Assets: make(map[string]Group)}

	names := make([]string, 0, len(files))
	for _, file := range files {
		if !file.IsDir && strings.HasPrefix(file.Name, "Pl") && strings.HasSuffix(file.Name, ".dat") {
			names = append(names, file.Name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		stem := strings.TrimSuffix(name, ".dat")
		if len(stem) < 4 {
			continue
		}

		char, ok := characterPrefixes[stem[2:4]]
		if !ok {
			common.LogDebug(common.DebugUnknownCharacter, name)
			continue
		}

		group, ok := c.Assets[char.key]
		if !ok {
			group = Group{Name: char.name, Files: make(map[string]Asset)}
		}
		group.Files[stem] = Asset{File: name, Description: describe(stem[4:])}
		c.Assets[char.key] = group
	}

	common.LogInfo(common.InfoCatalogGenerated, len(c.Assets), c.Len())
	return c
}

func describe(suffix string) string {
	if suffix == "" {
		return "Shared textures."
	}
	if description, ok := costumeCodes[suffix]; ok {
		return description
	}
	if strings.HasSuffix(suffix, "AJ") {
		return costumeCodes["AJ"]
	}
	return ""
}
