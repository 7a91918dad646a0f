package video

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gocv.io/x/gocv"
)

// Source reads frames from a video file, stream URL or capture device.
// The sequence is finite and non-restartable; Read returning false means
// end of stream.
type Source struct {
	capture *gocv.VideoCapture
	input   string
}

// Open opens the configured input. A plain number is treated as a device
// index, anything else as a file path or stream URL. A missing input file is
// a startup failure.
func Open(input string) (*Source, error) {
	var capture *gocv.VideoCapture
	var err error

	if deviceID, convErr := strconv.Atoi(input); convErr == nil {
		capture, err = gocv.OpenVideoCapture(deviceID)
	} else {
		capture, err = gocv.OpenVideoCapture(input)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open video source %s: %w", input, err)
	}
	if !capture.IsOpened() {
		return nil, fmt.Errorf("video source %s could not be opened", input)
	}

	return &Source{capture: capture, input: input}, nil
}

// Read fetches the next frame into mat. It returns false on end of stream.
func (s *Source) Read(mat *gocv.Mat) bool {
	return s.capture.Read(mat)
}

// FPS returns the source frame rate, falling back to 30 when unknown.
func (s *Source) FPS() float64 {
	fps := s.capture.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		return 30
	}
	return fps
}

// Width returns the frame width in pixels.
func (s *Source) Width() int {
	return int(s.capture.Get(gocv.VideoCaptureFrameWidth))
}

// Height returns the frame height in pixels.
func (s *Source) Height() int {
	return int(s.capture.Get(gocv.VideoCaptureFrameHeight))
}

// Close releases the capture device.
func (s *Source) Close() error {
	return s.capture.Close()
}

// Writer persists annotated frames to an output video file.
type Writer struct {
	writer *gocv.VideoWriter
	path   string
}

// NewWriter creates an MP4 writer in outputDir sized to the source.
func NewWriter(outputDir string, source *Source) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outputDir, fmt.Sprintf("output_%s.mp4", time.Now().Format("20060102_150405")))
	writer, err := gocv.VideoWriterFile(path, "mp4v", source.FPS(), source.Width(), source.Height(), true)
	if err != nil {
		return nil, fmt.Errorf("failed to create video writer: %w", err)
	}

	return &Writer{writer: writer, path: path}, nil
}

// Write appends a frame to the output file.
func (w *Writer) Write(mat gocv.Mat) error {
	return w.writer.Write(mat)
}

// Path returns the output file path.
func (w *Writer) Path() string {
	return w.path
}

// Close finalizes the output file.
func (w *Writer) Close() error {
	return w.writer.Close()
}
