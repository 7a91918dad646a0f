package ai

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	"gocv.io/x/gocv"

	"safetywatch/internal/config"
	"safetywatch/internal/logger"
	"safetywatch/internal/model"
)

// minDetectionConfidence is the floor applied at the network output. The
// configured violation threshold is enforced later by the violation filter.
const minDetectionConfidence = 0.25

var (
	safeColor      = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	violationColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	overlayColor   = color.RGBA{R: 255, G: 255, B: 255, A: 0}
)

// DetectorService wraps the SSD network used for PPE detection.
type DetectorService struct {
	net        gocv.Net
	modelPath  string
	configPath string
	logger     *logger.Logger
}

// NewDetectorService loads the DNN from the configured model files. Missing
// or unreadable model files are a startup failure.
func NewDetectorService(config *config.Config, logger *logger.Logger) (*DetectorService, error) {
	service := &DetectorService{
		modelPath:  config.ModelPath,
		configPath: config.ModelConfigPath,
		logger:     logger,
	}

	if err := service.initializeNet(); err != nil {
		return nil, err
	}

	return service, nil
}

// initializeNet loads the DNN network and sets backend/target preferences.
func (s *DetectorService) initializeNet() error {
	if _, err := os.Stat(s.modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", s.modelPath)
	}

	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		return fmt.Errorf("model config file not found: %s", s.configPath)
	}

	net := gocv.ReadNet(s.modelPath, s.configPath)

	if net.Empty() {
		return fmt.Errorf("failed to load network from %s", s.modelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		return fmt.Errorf("failed to set preferable backend or target")
	}

	s.net = net
	s.logger.Info("Detection network initialized from %s", s.modelPath)
	return nil
}

// DetectFrame runs the DNN on a frame and returns raw detections with pixel
// bounding boxes. Detections below minDetectionConfidence are discarded.
func (s *DetectorService) DetectFrame(frame gocv.Mat) ([]model.Detection, error) {
	if s.net.Empty() {
		return nil, fmt.Errorf("detection network not initialized")
	}
	if frame.Empty() {
		return nil, fmt.Errorf("frame is empty")
	}

	// SSD MobileNet input parameters
	blob := gocv.BlobFromImage(frame, 1.0/127.5, image.Pt(300, 300), gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	defer blob.Close()

	s.net.SetInput(blob, "")

	output := s.net.Forward("")
	defer output.Close()

	var results []model.Detection

	// Output rows: [ batch_id, class_id, confidence, x1, y1, x2, y2 ]
	outputReshaped := output.Reshape(1, output.Total()/7)
	defer outputReshaped.Close()
	for i := 0; i < outputReshaped.Rows(); i++ {
		confidence := float64(outputReshaped.GetFloatAt(i, 2))
		if confidence <= minDetectionConfidence {
			continue
		}

		classID := int(outputReshaped.GetFloatAt(i, 1))
		x := int(outputReshaped.GetFloatAt(i, 3) * float32(frame.Cols()))
		y := int(outputReshaped.GetFloatAt(i, 4) * float32(frame.Rows()))
		width := int(outputReshaped.GetFloatAt(i, 5)*float32(frame.Cols())) - x
		height := int(outputReshaped.GetFloatAt(i, 6)*float32(frame.Rows())) - y

		results = append(results, model.Detection{
			Label:      getClassLabel(classID),
			Confidence: confidence,
			X:          x,
			Y:          y,
			Width:      width,
			Height:     height,
		})
	}

	return results, nil
}

// Annotate draws all detections on the frame: red boxes for violations,
// green for everything else, plus a timestamp and a violation count banner.
func Annotate(frame *gocv.Mat, detections []model.Detection, violations model.ClassSet, now time.Time, violationCount int) {
	for _, det := range detections {
		boxColor := safeColor
		if violations.Contains(det.Label) {
			boxColor = violationColor
		}

		rect := image.Rect(det.X, det.Y, det.X+det.Width, det.Y+det.Height)
		gocv.Rectangle(frame, rect, boxColor, 2)

		label := fmt.Sprintf("%s %.2f", det.Label, det.Confidence)
		gocv.PutText(frame, label, image.Pt(det.X, det.Y-5), gocv.FontHersheySimplex, 0.5, boxColor, 2)
	}

	timestamp := now.Format("2006-01-02 15:04:05")
	gocv.PutText(frame, timestamp, image.Pt(10, 30), gocv.FontHersheySimplex, 1, overlayColor, 2)

	if violationCount > 0 {
		banner := fmt.Sprintf("VIOLATIONS: %d", violationCount)
		gocv.PutText(frame, banner, image.Pt(10, 70), gocv.FontHersheySimplex, 1, violationColor, 2)
	}
}

// Close releases the network.
func (s *DetectorService) Close() {
	s.net.Close()
}

// getClassLabel maps PPE model class IDs to labels.
func getClassLabel(classID int) string {
	labels := map[int]string{
		1: "person",
		2: "helmet",
		3: "no_helmet",
		4: "vest",
		5: "no_vest",
		6: "gloves",
		7: "no_gloves",
	}

	if label, exists := labels[classID]; exists {
		return label
	}
	return fmt.Sprintf("class_%d", classID)
}
