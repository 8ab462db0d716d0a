package model

// VoiceAction selects what the voice proxy does.
type VoiceAction string

const (
	VoiceActionSTT  VoiceAction = "stt"
	VoiceActionTTS  VoiceAction = "tts"
	VoiceActionChat VoiceAction = "chat"
)

// VoiceRequest is the body of POST /api/voice. Audio is base64 encoded.
type VoiceRequest struct {
	Action  VoiceAction `json:"action"`
	Audio   string      `json:"audio,omitempty"`
	Text    string      `json:"text,omitempty"`
	History []Message   `json:"history,omitempty"`
}

// TranscriptionResponse answers the stt action.
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// SynthesisResponse answers the tts action.
type SynthesisResponse struct {
	Audio string `json:"audio"`
}

// VoiceChatResponse answers the chat action.
type VoiceChatResponse struct {
	UserText      string `json:"userText"`
	ResponseText  string `json:"responseText"`
	ResponseAudio string `json:"responseAudio"`
}
