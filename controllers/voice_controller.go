package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coachfit/coachfit/config"
	"github.com/coachfit/coachfit/utils"
)

// VoiceController relays text-to-speech requests to ElevenLabs and streams
// the audio straight back without buffering it.
type VoiceController struct {
	cfg    config.AppConfig
	client *http.Client
}

func NewVoiceController(cfg config.AppConfig) *VoiceController {
	// No overall timeout: the audio stream can outlive any sane fixed bound.
	return &VoiceController{cfg: cfg, client: &http.Client{
		Transport: &http.Transport{ResponseHeaderTimeout: 30 * time.Second},
	}}
}

type ttsRequest struct {
	Text string `json:"text" binding:"required"`
}

func (v *VoiceController) TTS(ctx *gin.Context) {
	var req ttsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42250, "text is required")
		return
	}

	if v.cfg.ElevenLabsAPIKey == "" || v.cfg.ElevenLabsVoice == "" {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "voice provider not configured")
		return
	}

	payload, err := json.Marshal(gin.H{
		"text":     req.Text,
		"model_id": v.cfg.ElevenLabsModel,
		"voice_settings": gin.H{
			"stability":        0.4,
			"similarity_boost": 0.7,
		},
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to build upstream request")
		return
	}

	url := fmt.Sprintf("https://api.elevenlabs.io/v1/text-to-speech/%s/stream", v.cfg.ElevenLabsVoice)
	upstream, err := http.NewRequestWithContext(ctx.Request.Context(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to build upstream request")
		return
	}
	upstream.Header.Set("Content-Type", "application/json")
	upstream.Header.Set("xi-api-key", v.cfg.ElevenLabsAPIKey)

	resp, err := v.client.Do(upstream)
	if err != nil {
		utils.Error(ctx, http.StatusBadGateway, 50270, "voice provider unreachable")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if utils.Sugar != nil {
			utils.Sugar.Warnw("tts upstream error", "status", resp.StatusCode)
		}
		utils.Error(ctx, http.StatusBadGateway, 50271, "voice provider request failed")
		return
	}

	ctx.Header("Content-Type", "audio/mpeg")
	ctx.Status(http.StatusOK)
	if _, err := io.Copy(ctx.Writer, resp.Body); err != nil && utils.Sugar != nil {
		utils.Sugar.Debugw("tts stream interrupted", "err", err)
	}
}
