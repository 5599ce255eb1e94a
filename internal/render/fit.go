package render

import "image"

// Image-fit geometry. CoverRect and ContainRect are pure functions so the
// crop/letterbox math can be verified independently of any pixel work.

// CoverRect computes the source crop for "cover" placement: the source is
// scaled by the larger axis factor and cropped about its center on the
// other axis, so the destination box is filled completely.
func CoverRect(srcW, srcH, dstW, dstH int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return image.Rectangle{}
	}

	scaleX := float64(dstW) / float64(srcW)
	scaleY := float64(dstH) / float64(srcH)
	scale := scaleX
	if scaleY > scale {
		scale = scaleY
	}

	visibleW := int(float64(dstW)/scale + 0.5)
	visibleH := int(float64(dstH)/scale + 0.5)
	if visibleW > srcW {
		visibleW = srcW
	}
	if visibleH > srcH {
		visibleH = srcH
	}

	x0 := (srcW - visibleW) / 2
	y0 := (srcH - visibleH) / 2
	return image.Rect(x0, y0, x0+visibleW, y0+visibleH)
}

// ContainRect computes the destination rectangle for "contain" placement:
// the source is scaled by the smaller axis factor and centered inside the
// box, leaving letterbox space on the off axis.
func ContainRect(srcW, srcH int, box image.Rectangle) image.Rectangle {
	if srcW <= 0 || srcH <= 0 || box.Dx() <= 0 || box.Dy() <= 0 {
		return image.Rectangle{}
	}

	scaleX := float64(box.Dx()) / float64(srcW)
	scaleY := float64(box.Dy()) / float64(srcH)
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}

	w := int(float64(srcW)*scale + 0.5)
	h := int(float64(srcH)*scale + 0.5)
	if w > box.Dx() {
		w = box.Dx()
	}
	if h > box.Dy() {
		h = box.Dy()
	}

	x0 := box.Min.X + (box.Dx()-w)/2
	y0 := box.Min.Y + (box.Dy()-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}
