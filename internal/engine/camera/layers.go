package camera

// MaxLayers is the number of render layers a LayerMask can address.
const MaxLayers = 32

// LayerMask selects render layers, one bit per layer.
type LayerMask uint32

// AllLayers selects every layer.
const AllLayers = ^LayerMask(0)

// LayerBit returns the mask for a single layer, or 0 when layer is out of range.
func LayerBit(layer int) LayerMask {
	if layer < 0 || layer >= MaxLayers {
		return 0
	}
	return 1 << uint(layer)
}

// Has reports whether layer is selected.
func (m LayerMask) Has(layer int) bool {
	return m&LayerBit(layer) != 0
}

// Without returns the mask with layer cleared.
func (m LayerMask) Without(layer int) LayerMask {
	return m &^ LayerBit(layer)
}
