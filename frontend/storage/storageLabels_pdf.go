package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"

	"cwsdash/frontend/shared/html"
	"cwsdash/infrastructure/viewmodel"
)

func renderBagLabelPDF(bag viewmodel.StorageBag, printedAt time.Time) ([]byte, error) {
	return renderBagLabelsPDF([]viewmodel.StorageBag{bag}, printedAt)
}

// renderBagLabelsPDF prints one A6 landscape label per bag with the bag
// code as a code128 barcode.
func renderBagLabelsPDF(bags []viewmodel.StorageBag, printedAt time.Time) ([]byte, error) {
	if len(bags) == 0 {
		return nil, fmt.Errorf("no bag labels to render")
	}

	pdf := gofpdf.New("L", "mm", "A6", "")
	pdf.SetTitle("Storage Bag Labels", false)
	pdf.SetAutoPageBreak(false, 0)
	for i, bag := range bags {
		if err := addBagLabelPage(pdf, bag, printedAt, i); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func addBagLabelPage(pdf *gofpdf.Fpdf, bag viewmodel.StorageBag, printedAt time.Time, pageIndex int) error {
	code := strings.TrimSpace(bag.BagCode)
	if code == "" {
		code = fmt.Sprintf("BAG-%06d", bag.ID)
	}
	lotName := strings.TrimSpace(bag.LotName)
	if lotName == "" {
		lotName = "Unassigned lot"
	}
	stored := bag.StoredDate
	if stored == "" {
		stored = "-"
	}

	barcodePNG, err := renderCode128PNG(code, 900, 200)
	if err != nil {
		return err
	}

	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	margin := 6.0
	x0, y0 := margin, margin
	w0, h0 := pageW-2*margin, pageH-2*margin

	pdf.SetLineWidth(0.35)
	pdf.Rect(x0, y0, w0, h0, "")

	rowLot := 18.0
	rowFacts := 22.0
	yFacts := y0 + rowLot
	yBarcode := yFacts + rowFacts
	rowBarcode := h0 - rowLot - rowFacts
	pdf.Line(x0, yFacts, x0+w0, yFacts)
	pdf.Line(x0, yBarcode, x0+w0, yBarcode)
	colW := w0 / 3
	pdf.Line(x0+colW, yFacts, x0+colW, yBarcode)
	pdf.Line(x0+2*colW, yFacts, x0+2*colW, yBarcode)

	lotFont := fitFontSizeForWidth(pdf, "Helvetica", "B", 24, 12, lotName, w0-8)
	pdf.SetFont("Helvetica", "B", lotFont)
	pdf.SetXY(x0+4, y0+3)
	pdf.CellFormat(w0-8, rowLot-6, lotName, "", 0, "L", false, 0, "")

	facts := [][2]string{
		{"Weight", html.Kg(bag.Weight)},
		{"Moisture", html.Percent(bag.Moisture)},
		{"Stored", stored},
	}
	for i, f := range facts {
		x := x0 + float64(i)*colW
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetXY(x+2, yFacts+2)
		pdf.CellFormat(colW-4, 4, f[0]+":", "", 0, "L", false, 0, "")
		valueFont := fitFontSizeForWidth(pdf, "Helvetica", "B", 16, 9, f[1], colW-6)
		pdf.SetFont("Helvetica", "B", valueFont)
		pdf.SetXY(x+3, yFacts+8)
		pdf.CellFormat(colW-6, rowFacts-10, f[1], "", 0, "L", false, 0, "")
	}

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imageName := fmt.Sprintf("bag-barcode-%d-%d", bag.ID, pageIndex)
	pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
	barcodeH := rowBarcode - 16
	if barcodeH < 10 {
		barcodeH = 10
	}
	pdf.ImageOptions(imageName, x0+8, yBarcode+3, w0-16, barcodeH, false, opt, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(x0+4, yBarcode+rowBarcode-12)
	pdf.CellFormat(w0-8, 6, code, "", 0, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(x0+4, yBarcode+rowBarcode-6)
	pdf.CellFormat(w0-8, 4, "Printed "+printedAt.Format("02/01/2006 15:04"), "", 0, "R", false, 0, "")
	return nil
}

func fitFontSizeForWidth(pdf *gofpdf.Fpdf, family, style string, base, min float64, text string, maxWidth float64) float64 {
	if maxWidth <= 0 {
		return min
	}
	size := base
	pdf.SetFont(family, style, size)
	for size > min && pdf.GetStringWidth(text) > maxWidth {
		size -= 0.5
		pdf.SetFont(family, style, size)
	}
	return size
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := png.Encode(&out, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
