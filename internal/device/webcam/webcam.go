// Package webcam reads frames from a local camera through OpenCV.
package webcam

import (
	"fmt"
	"image"
	"strconv"
	"sync"

	"gocv.io/x/gocv"

	"photobooth/internal/device"
)

// Webcam is a device.Source backed by gocv.VideoCapture.
type Webcam struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
	mu      sync.Mutex
}

var _ device.Source = (*Webcam)(nil)

// Open opens a camera by index ("0") or by path/URL.
func Open(id string) (*Webcam, error) {
	var target interface{} = id
	if n, err := strconv.Atoi(id); err == nil {
		target = n
	}

	capture, err := gocv.OpenVideoCapture(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", device.ErrUnavailable, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: device %s not opened", device.ErrUnavailable, id)
	}

	return &Webcam{capture: capture, frame: gocv.NewMat()}, nil
}

// Frame grabs the current frame at the camera's native resolution.
func (w *Webcam) Frame() (image.Image, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ok := w.capture.Read(&w.frame); !ok || w.frame.Empty() {
		return nil, fmt.Errorf("%w: no frame", device.ErrUnavailable)
	}

	img, err := w.frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", device.ErrUnavailable, err)
	}
	return img, nil
}

// Size reports the native frame dimensions the driver advertises.
func (w *Webcam) Size() (int, int) {
	return int(w.capture.Get(gocv.VideoCaptureFrameWidth)), int(w.capture.Get(gocv.VideoCaptureFrameHeight))
}

// Close releases the camera.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.frame.Close()
	return w.capture.Close()
}
