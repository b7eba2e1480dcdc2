package web

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shouni/project-sheet-analyzer/pkg/analyzer"
	"github.com/shouni/project-sheet-analyzer/pkg/domain"
)

const (
	formField = "image"
	pageTitle = "Student Project Analyzer"
)

var (
	errNoImage     = errors.New("no image file provided")
	errInvalidType = errors.New("invalid image type, supported: jpg, jpeg, png")
	errTooLarge    = errors.New("uploaded file is too large")
	errUnreadable  = errors.New("uploaded file could not be read")
	errNoAnalyzer  = errors.New("analyzer is not configured")
)

// Handler はアップロード画面と解析エンドポイントを提供する薄いアダプターです。
type Handler struct {
	analyzer       analyzer.Analyzer
	maxUploadBytes int64
	renderer       *MarkdownRenderer
}

// NewHandler は Analyzer を注入して Handler を初期化します。
func NewHandler(a analyzer.Analyzer, maxUploadBytes int64) (*Handler, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, errNoAnalyzer)
	}
	return &Handler{
		analyzer:       a,
		maxUploadBytes: maxUploadBytes,
		renderer:       NewMarkdownRenderer(),
	}, nil
}

type pageData struct {
	Title     string
	Error     string
	RequestID string
	Result    *resultView
}

type resultView struct {
	FileName   string
	PreviewURI template.URL
	HTML       template.HTML
	Model      string
	WordCount  int
}

type analyzeResponse struct {
	RequestID    string `json:"request_id"`
	Text         string `json:"text"`
	Model        string `json:"model"`
	SourceFormat string `json:"source_format"`
	WordCount    int    `json:"word_count"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id"`
}

type upload struct {
	name  string
	image domain.UploadedImage
}

// Index はアップロードフォームを表示します。
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData{Title: pageTitle})
}

// AnalyzeForm はフォームから送信された画像を解析し、結果をページとして表示します。
func (h *Handler) AnalyzeForm(c *gin.Context) {
	page := pageData{Title: pageTitle, RequestID: c.GetString(requestIDKey)}

	up, status, err := h.readUpload(c)
	if err != nil {
		page.Error = userMessage(err)
		c.HTML(status, "index.html", page)
		return
	}

	res, err := h.analyze(c, up)
	if err != nil {
		page.Error = userMessage(err)
		c.HTML(statusFor(err), "index.html", page)
		return
	}

	page.Result = &resultView{
		FileName:   up.name,
		PreviewURI: previewURI(up.image),
		HTML:       h.renderer.Render(res.Text),
		Model:      res.Model,
		WordCount:  res.WordCount,
	}
	c.HTML(http.StatusOK, "index.html", page)
}

// AnalyzeAPI は同じ解析を JSON で返します。text は外部サービスの応答をトリムしただけの値です。
func (h *Handler) AnalyzeAPI(c *gin.Context) {
	requestID := c.GetString(requestIDKey)

	up, status, err := h.readUpload(c)
	if err != nil {
		c.JSON(status, errorResponse{Error: err.Error(), Kind: "invalid_request", RequestID: requestID})
		return
	}

	res, err := h.analyze(c, up)
	if err != nil {
		c.JSON(statusFor(err), errorResponse{Error: err.Error(), Kind: domain.ErrorKind(err), RequestID: requestID})
		return
	}

	c.JSON(http.StatusOK, analyzeResponse{
		RequestID:    requestID,
		Text:         res.Text,
		Model:        res.Model,
		SourceFormat: string(res.SourceFormat),
		WordCount:    res.WordCount,
	})
}

// Health はヘルスチェック用のエンドポイントです。
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "project-sheet-analyzer",
	})
}

func (h *Handler) analyze(c *gin.Context, up *upload) (*domain.DisplayResult, error) {
	res, err := h.analyzer.HandleUpload(c.Request.Context(), up.image.Data, up.image.Format)
	if err != nil {
		_ = c.Error(err)
		slog.WarnContext(c.Request.Context(), "画像の解析に失敗しました",
			"request_id", c.GetString(requestIDKey), "kind", domain.ErrorKind(err), "error", err)
		return nil, err
	}
	return res, nil
}

// readUpload は multipart フォームから画像を 1 件読み込みます。
func (h *Handler) readUpload(c *gin.Context) (*upload, int, error) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	file, err := c.FormFile(formField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, http.StatusRequestEntityTooLarge, errTooLarge
		}
		return nil, http.StatusBadRequest, errNoImage
	}

	format, err := declaredFormat(file)
	if err != nil {
		return nil, http.StatusBadRequest, errInvalidType
	}

	src, err := file.Open()
	if err != nil {
		return nil, http.StatusBadRequest, errUnreadable
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, http.StatusBadRequest, errUnreadable
	}

	return &upload{name: file.Filename, image: domain.UploadedImage{Data: data, Format: format}}, http.StatusOK, nil
}

// declaredFormat はファイル名の拡張子、なければパートの Content-Type からフォーマットを判定します。
func declaredFormat(file *multipart.FileHeader) (domain.ImageFormat, error) {
	if f, err := domain.ParseImageFormat(file.Filename); err == nil {
		return f, nil
	}
	return domain.ParseImageFormat(file.Header.Get("Content-Type"))
}

func previewURI(img domain.UploadedImage) template.URL {
	mime := "image/jpeg"
	if img.Format == domain.FormatPNG {
		mime = "image/png"
	}
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, errNoImage):
		return "Please choose a project image to upload."
	case errors.Is(err, errInvalidType):
		return "Invalid image type. Supported: jpg, jpeg, png."
	case errors.Is(err, errTooLarge):
		return "The uploaded file is too large."
	case errors.Is(err, context.DeadlineExceeded):
		return "The analysis service did not respond in time. Please try again."
	case errors.Is(err, domain.ErrDecode):
		return "The uploaded file could not be read as a JPEG or PNG image."
	case errors.Is(err, domain.ErrService):
		return "The analysis service request failed. Please try again later."
	case errors.Is(err, domain.ErrConfiguration):
		return "The analyzer is not configured."
	default:
		return err.Error()
	}
}
