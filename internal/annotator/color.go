package annotator

import "fmt"

type RGB struct {
	R, G, B int
}

func (c RGB) ToHex() string {
	return fmt.Sprintf("#%02X%02X%02X", clamp(c.R), clamp(c.G), clamp(c.B))
}

func clamp(v int) int {
	return max(0, min(255, v))
}
