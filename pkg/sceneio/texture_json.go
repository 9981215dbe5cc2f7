package sceneio

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// UnmarshalJSON accepts either a bare [r,g,b] array or a {"type":...}
// texture object, matching spec §6's "inline [r,g,b]" shorthand.
func (c *ColorOrTexture) UnmarshalJSON(data []byte) error {
	var triple [3]float64
	if err := json.Unmarshal(data, &triple); err == nil {
		c.Color = &triple
		return nil
	}

	var tex TextureSpec
	if err := json.Unmarshal(data, &tex); err != nil {
		return errors.Wrap(err, "decoding color-or-texture value")
	}
	c.Texture = &tex
	return nil
}
