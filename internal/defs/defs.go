// Package defs holds the compiled-in content definition tables: the map
// catalog and the cosmetic item catalog. The tables are data, not logic;
// the rest of the service only asks "does this name exist".
package defs

// MapDefs lists every playable map by name.
var MapDefs = map[string]MapDef{
	"main":        {ID: 0, Desert: false},
	"main_spring": {ID: 0, Desert: false},
	"desert":      {ID: 1, Desert: true},
	"woods":       {ID: 2, Desert: false},
	"savannah":    {ID: 3, Desert: true},
	"cobalt":      {ID: 4, Desert: false},
	"halloween":   {ID: 5, Desert: false},
}

type MapDef struct {
	ID     int
	Desert bool
}

// ItemDefs lists every grantable cosmetic by type string.
var ItemDefs = map[string]ItemDef{
	"outfitBase":         {Kind: "outfit"},
	"outfitRoyalFortune": {Kind: "outfit"},
	"outfitDarkShirt":    {Kind: "outfit"},
	"outfitParma":        {Kind: "outfit"},
	"emote_happyface":    {Kind: "emote"},
	"emote_sadface":      {Kind: "emote"},
	"emote_thumbsup":     {Kind: "emote"},
	"crosshair_default":  {Kind: "crosshair"},
	"heal_basic":         {Kind: "heal_effect"},
	"boost_basic":        {Kind: "boost_effect"},
}

type ItemDef struct {
	Kind string
}

// MapCatalog answers existence checks against MapDefs.
type MapCatalog struct{}

func (MapCatalog) Exists(mapName string) bool {
	_, ok := MapDefs[mapName]
	return ok
}

// ItemCatalog answers existence checks against ItemDefs.
type ItemCatalog struct{}

func (ItemCatalog) Exists(itemType string) bool {
	_, ok := ItemDefs[itemType]
	return ok
}
