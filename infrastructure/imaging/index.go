package imaging

import (
	"fmt"

	"campuspass.io/entities"
	"gocv.io/x/gocv"
)

// thresholdMidpoint is the fixed luminance cut between ink and card
// background after grayscale conversion.
const thresholdMidpoint = 127

// OCRPreprocessor converts a frame to grayscale and applies a binary
// threshold so printed identifiers stand out for text recognition.
type OCRPreprocessor struct{}

func NewOCRPreprocessor() *OCRPreprocessor {
	return &OCRPreprocessor{}
}

func (p *OCRPreprocessor) Prepare(frame *entities.Frame) (*entities.Frame, error) {
	img, err := gocv.IMDecode(frame.Data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decoding frame for preprocessing: %w", err)
	}
	defer img.Close()
	if img.Empty() {
		return nil, fmt.Errorf("frame decoded to an empty image")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, thresholdMidpoint, 255, gocv.ThresholdBinary)

	encoded, err := gocv.IMEncode(gocv.PNGFileExt, binary)
	if err != nil {
		return nil, fmt.Errorf("encoding preprocessed frame: %w", err)
	}
	defer encoded.Close()

	data := make([]byte, len(encoded.GetBytes()))
	copy(data, encoded.GetBytes())

	return &entities.Frame{
		Data:   data,
		Width:  frame.Width,
		Height: frame.Height,
	}, nil
}
