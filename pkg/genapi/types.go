package genapi

// Mode selects the generation strategy on the wire.
type Mode string

const (
	ModeTextToImage  Mode = "text-to-image"
	ModeImageToImage Mode = "image-to-image"
	ModeFullRender   Mode = "full-mug-render"
)

// TextureRequest is the body of POST /generate-texture.
type TextureRequest struct {
	Prompt    string `json:"prompt"`
	Mode      Mode   `json:"mode"`
	BaseImage string `json:"baseImage,omitempty"`
}

// Quota is the session/client usage block attached to successful
// generation responses.
type Quota struct {
	Remaining int `json:"remaining"`
	Limit     int `json:"limit"`
	IPUsed    int `json:"ipUsed"`
}

// TextureResponse is the success body of POST /generate-texture.
type TextureResponse struct {
	ImageURL string `json:"imageUrl"`
	Quota    *Quota `json:"quota,omitempty"`
}

// MultiViewRequest is the body of POST /generate-multi-view.
type MultiViewRequest struct {
	DesignID   string   `json:"designId"`
	BasePrompt string   `json:"basePrompt"`
	ViewAngles []string `json:"viewAngles"`
}

// View is one generated angle in a multi-view response.
type View struct {
	Angle string `json:"angle"`
	URL   string `json:"url"`
}

// MultiViewResponse is the success body of POST /generate-multi-view.
// PartialSuccess is set when only a subset of the requested angles was
// generated; callers treat that as success.
type MultiViewResponse struct {
	Views          []View `json:"views"`
	PartialSuccess bool   `json:"partialSuccess,omitempty"`
}

// TextPosition mirrors the 3-axis placement in a design submission.
type TextPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DesignSubmission is the body of POST /designs.
type DesignSubmission struct {
	MugColor            string        `json:"mugColor"`
	UploadedImageBase64 string        `json:"uploadedImageBase64,omitempty"`
	CustomText          string        `json:"customText,omitempty"`
	TextFont            string        `json:"textFont,omitempty"`
	TextPosition        *TextPosition `json:"textPosition,omitempty"`
	TextSize            float64       `json:"textSize,omitempty"`
	TextColor           string        `json:"textColor,omitempty"`
}

// SubmitResponse is the success body of POST /designs.
type SubmitResponse struct {
	Success bool `json:"success"`
	Data    struct {
		ID string `json:"id"`
	} `json:"data"`
}

// errorBody is the failure shape shared by all endpoints.
type errorBody struct {
	Error      string  `json:"error"`
	Code       string  `json:"code,omitempty"`
	RetryAfter float64 `json:"retryAfter,omitempty"` // seconds
	Limit      int     `json:"limit,omitempty"`
}
