package protocol

// MessageType describes a message the way the middleware registers it.
type MessageType struct {
	name       string
	md5sum     string
	definition string
	hasHeader  bool
}

func (t MessageType) Name() string {
	return t.name
}

// MD5Sum is the middleware's type fingerprint. Both ends of a connection
// must agree on it before exchanging bytes.
func (t MessageType) MD5Sum() string {
	return t.md5sum
}

// Definition is the full message text, nested types included.
func (t MessageType) Definition() string {
	return t.definition
}

// HasHeader reports whether the message starts with a std_msgs/Header.
func (t MessageType) HasHeader() bool {
	return t.hasHeader
}

const (
	point2DText = "float32 x\nfloat32 y\n"
	contourText = "string name\nPoint2D[] points\n"

	separator = "\n================================================================================\n"
)

var (
	MsgPoint2D = MessageType{
		name:       "seabee3_msgs/Point2D",
		md5sum:     "ff8d7d66dd3e4b731ef14a45d38888b6",
		definition: point2DText,
	}

	MsgContour = MessageType{
		name:       "seabee3_msgs/Contour",
		md5sum:     "3583f022d147310a17328f48872d34bd",
		definition: contourText + separator + "MSG: seabee3_msgs/Point2D\n" + point2DText + "\n",
	}

	MsgContourArray = MessageType{
		name:   "seabee3_msgs/ContourArray",
		md5sum: "bf6f0c13fbd82c16a91b23ef15c76cbe",
		definition: "Contour[] contours\n" +
			separator + "MSG: seabee3_msgs/Contour\n" + contourText +
			separator + "MSG: seabee3_msgs/Point2D\n" + point2DText + "\n",
	}
)
