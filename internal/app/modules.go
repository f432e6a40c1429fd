package app

import (
	"github.com/vk/itemforge/internal/registry"
	"github.com/vk/itemforge/modules/armor"
	"github.com/vk/itemforge/modules/attack"
	"github.com/vk/itemforge/modules/dyed_color"
	"github.com/vk/itemforge/modules/edible"
	"github.com/vk/itemforge/modules/lore"
	"github.com/vk/itemforge/modules/on_use"
)

// coreModules is the definitive list of all handler modules that are compiled
// into the itemforge binary.
var coreModules = []registry.Module{
	&armor.Module{},
	&attack.Module{},
	&dyed_color.Module{},
	&edible.Module{},
	&lore.Module{},
	&on_use.Module{},
}
