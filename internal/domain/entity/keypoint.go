package entity

import (
	"errors"
	"fmt"
)

// Landmark — имя анатомической точки скелета
type Landmark string

// Канонические 17 точек в порядке выхода MoveNet.
const (
	Nose          Landmark = "nose"
	LeftEye       Landmark = "left_eye"
	RightEye      Landmark = "right_eye"
	LeftEar       Landmark = "left_ear"
	RightEar      Landmark = "right_ear"
	LeftShoulder  Landmark = "left_shoulder"
	RightShoulder Landmark = "right_shoulder"
	LeftElbow     Landmark = "left_elbow"
	RightElbow    Landmark = "right_elbow"
	LeftWrist     Landmark = "left_wrist"
	RightWrist    Landmark = "right_wrist"
	LeftHip       Landmark = "left_hip"
	RightHip      Landmark = "right_hip"
	LeftKnee      Landmark = "left_knee"
	RightKnee     Landmark = "right_knee"
	LeftAnkle     Landmark = "left_ankle"
	RightAnkle    Landmark = "right_ankle"
)

// CanonicalLandmarks перечисляет все точки модели позы в порядке её выхода.
var CanonicalLandmarks = []Landmark{
	Nose, LeftEye, RightEye, LeftEar, RightEar,
	LeftShoulder, RightShoulder, LeftElbow, RightElbow,
	LeftWrist, RightWrist, LeftHip, RightHip,
	LeftKnee, RightKnee, LeftAnkle, RightAnkle,
}

// BodyLandmarks — двенадцать точек тела, по которым работают правила.
var BodyLandmarks = []Landmark{
	LeftShoulder, RightShoulder,
	LeftElbow, RightElbow,
	LeftWrist, RightWrist,
	LeftHip, RightHip,
	LeftKnee, RightKnee,
	LeftAnkle, RightAnkle,
}

// Valid сообщает, входит ли точка в канонический набор.
func (l Landmark) Valid() bool {
	for _, c := range CanonicalLandmarks {
		if c == l {
			return true
		}
	}
	return false
}

// CoordinateSpace — система координат, в которой провайдер отдаёт точки.
type CoordinateSpace string

const (
	SpacePixel      CoordinateSpace = "pixel"      // пиксели кадра
	SpaceNormalized CoordinateSpace = "normalized" // доли ширины/высоты, 0..1
)

// ErrInvalidFrameSize возвращается при нормализации по кадру без размеров.
var ErrInvalidFrameSize = errors.New("invalid frame size")

// Keypoint — положение точки и уверенность модели.
// Ось Y направлена вниз: больший Y значит ниже в кадре.
type Keypoint struct {
	X          float64
	Y          float64
	Confidence float64
}

// KeypointFrame — точки одного кадра. Отсутствие точки — нормальное состояние.
type KeypointFrame map[Landmark]Keypoint

// Get возвращает точку и признак её наличия.
func (f KeypointFrame) Get(l Landmark) (Keypoint, bool) {
	kp, ok := f[l]
	return kp, ok
}

// Restrict оставляет только перечисленные точки. Отсутствующие не дополняются.
func (f KeypointFrame) Restrict(landmarks []Landmark) KeypointFrame {
	out := make(KeypointFrame, len(landmarks))
	for _, l := range landmarks {
		if kp, ok := f[l]; ok {
			out[l] = kp
		}
	}
	return out
}

// FilterConfidence отбрасывает точки с уверенностью ниже min.
func (f KeypointFrame) FilterConfidence(min float64) KeypointFrame {
	out := make(KeypointFrame, len(f))
	for l, kp := range f {
		if kp.Confidence < min {
			continue
		}
		out[l] = kp
	}
	return out
}

// Normalize приводит координаты к диапазону 0..1.
// Пиксельные координаты делятся на ширину и высоту кадра.
func (f KeypointFrame) Normalize(space CoordinateSpace, width, height int) (KeypointFrame, error) {
	out := make(KeypointFrame, len(f))
	switch space {
	case SpaceNormalized:
		for l, kp := range f {
			out[l] = kp
		}
		return out, nil
	case SpacePixel:
		if width <= 0 || height <= 0 {
			return nil, fmt.Errorf("normalize %dx%d: %w", width, height, ErrInvalidFrameSize)
		}
		for l, kp := range f {
			out[l] = Keypoint{
				X:          kp.X / float64(width),
				Y:          kp.Y / float64(height),
				Confidence: kp.Confidence,
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown coordinate space %q", space)
	}
}

// Point — координаты точки в ответе клиенту.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Points возвращает координаты без уверенности, как их видит клиент.
func (f KeypointFrame) Points() map[Landmark]Point {
	out := make(map[Landmark]Point, len(f))
	for l, kp := range f {
		out[l] = Point{X: kp.X, Y: kp.Y}
	}
	return out
}
