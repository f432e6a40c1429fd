// Package schema declares the HCL shapes of user-facing item files. These
// structs are decode targets only; the loader translates them into the
// format-agnostic model in the config package.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// ComponentsBlock holds the raw attribute body of an item's `components`
// block. Attributes are deliberately left undecoded so the loader can keep
// their expressions, source ranges, and declaration order.
type ComponentsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// TransformerBlock is a transformer declared inside an item block. Its render
// expression is evaluated at resolve time with a `value` variable bound to
// the attribute's current value.
type TransformerBlock struct {
	Name   string         `hcl:"name,label"`
	Render hcl.Expression `hcl:"render"`
}

// Item represents an `item` block from a user's item file.
type Item struct {
	Name         string              `hcl:"name,label"`
	ID           string              `hcl:"id,optional"`
	Inherits     string              `hcl:"inherits,optional"`
	Components   *ComponentsBlock    `hcl:"components,block"`
	Transformers []*TransformerBlock `hcl:"transformer,block"`
}

// ItemConfig represents the top-level structure of an item file, containing
// all item definitions declared in it.
type ItemConfig struct {
	Items []*Item  `hcl:"item,block"`
	Body  hcl.Body `hcl:",remain"`
}
