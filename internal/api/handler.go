package api

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/expensetrack/statement-import/internal/extractor"
	"github.com/expensetrack/statement-import/internal/ledger"
	"github.com/expensetrack/statement-import/internal/models"
	"github.com/expensetrack/statement-import/internal/parser"
	"github.com/expensetrack/statement-import/internal/writer"
)

const apiVersion = "1.0.0"

// ImportResponse is the JSON response from the import endpoints.
type ImportResponse struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	Transactions []models.Transaction `json:"transactions"`
	Count        int                  `json:"count"`
	TotalIncome  decimal.Decimal      `json:"totalIncome"`
	TotalExpense decimal.Decimal      `json:"totalExpense"`
	TotalLines   int                  `json:"totalLines"`
	MatchedLines int                  `json:"matchedLines"`
	SkippedLines int                  `json:"skippedLines"`
	CSV          string               `json:"csv,omitempty"`
}

// base64Request is the body accepted by /api/import/base64. The pdfData
// field may carry a data-URI prefix, which is stripped before decoding.
type base64Request struct {
	PDFData  string `json:"pdfData"`
	FileName string `json:"fileName"`
}

type applyRequest struct {
	Transactions []models.Transaction `json:"transactions"`
}

type applyResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Applied int             `json:"applied"`
	Balance decimal.Decimal `json:"balance"`
	Entries []ledger.Entry  `json:"entries"`
}

// Handler holds the HTTP handlers for the import API.
type Handler struct {
	engine *parser.Engine
	ledger *ledger.Ledger
	logger *log.Logger
}

// New builds a Handler around a parse engine and a ledger.
func New(engine *parser.Engine, book *ledger.Ledger, logger *log.Logger) *Handler {
	return &Handler{engine: engine, ledger: book, logger: logger}
}

// RegisterRoutes sets up the API routes on a fiber app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/import", h.HandleImport)
	app.Post("/api/import/base64", h.HandleImportBase64)
	app.Post("/api/ledger/apply", h.HandleLedgerApply)
	app.Get("/api/ledger", h.HandleLedger)
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": apiVersion,
	})
}

// HandleImport accepts either a multipart file upload (form field "file",
// .pdf or .txt) or raw statement text (form field "text") and returns the
// recognized transactions.
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	text := strings.TrimSpace(c.FormValue("text"))

	if text == "" {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "No statement provided. Upload form field 'file' (.pdf or .txt) or pass 'text'.")
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		switch ext {
		case ".pdf":
			tmpPath, cleanup, err := saveUpload(c, fileHeader)
			if err != nil {
				return writeError(c, fiber.StatusInternalServerError, err.Error())
			}
			defer cleanup()

			text, err = extractor.ExtractTextCombined(tmpPath)
			if err != nil {
				return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
			}
		case ".txt":
			f, err := fileHeader.Open()
			if err != nil {
				return writeError(c, fiber.StatusInternalServerError, "Failed to read uploaded file.")
			}
			defer f.Close()
			var buf bytes.Buffer
			if _, err := buf.ReadFrom(f); err != nil {
				return writeError(c, fiber.StatusInternalServerError, "Failed to read uploaded file.")
			}
			text = buf.String()
		default:
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Unsupported file type %q. Only .pdf and .txt are accepted.", ext))
		}
	}

	return h.respondWithParse(c, text)
}

// HandleImportBase64 accepts a JSON body carrying a base64-encoded PDF,
// matching the payload mobile clients send.
func (h *Handler) HandleImportBase64(c *fiber.Ctx) error {
	var req base64Request
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid JSON body.")
	}
	if req.PDFData == "" {
		return writeError(c, fiber.StatusBadRequest, "Missing pdfData.")
	}

	data := req.PDFData
	if idx := strings.Index(data, "base64,"); idx >= 0 {
		data = data[idx+len("base64,"):]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "pdfData is not valid base64.")
	}

	tmpFile, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to create temp file.")
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(raw); err != nil {
		tmpFile.Close()
		return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded PDF.")
	}
	tmpFile.Close()

	text, err := extractor.ExtractTextCombined(tmpFile.Name())
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
	}

	h.logger.Debug("base64 import", "file", req.FileName, "bytes", len(raw))
	return h.respondWithParse(c, text)
}

// HandleLedgerApply posts parsed transactions to the running ledger and
// returns the resulting balance.
func (h *Handler) HandleLedgerApply(c *fiber.Ctx) error {
	var req applyRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid JSON body.")
	}
	if len(req.Transactions) == 0 {
		return writeError(c, fiber.StatusBadRequest, "No transactions to apply.")
	}

	applied := h.ledger.Apply(req.Transactions)
	h.logger.Debug("ledger apply", "received", len(req.Transactions), "applied", applied)

	return c.JSON(applyResponse{
		Success: true,
		Applied: applied,
		Balance: h.ledger.Balance(),
		Entries: h.ledger.Entries(),
	})
}

// HandleLedger returns the current ledger state.
func (h *Handler) HandleLedger(c *fiber.Ctx) error {
	entries := h.ledger.Entries()
	if entries == nil {
		entries = []ledger.Entry{}
	}
	return c.JSON(applyResponse{
		Success: true,
		Applied: len(entries),
		Balance: h.ledger.Balance(),
		Entries: entries,
	})
}

func (h *Handler) respondWithParse(c *fiber.Ctx, text string) error {
	report, err := h.engine.Parse(text)
	if err != nil {
		h.logger.Debug("parse failed", "error", err, "lines", report.TotalLines)
		return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	for _, txn := range report.Transactions {
		switch txn.Direction {
		case models.Income:
			totalIncome = totalIncome.Add(txn.Amount)
		case models.Expense:
			totalExpense = totalExpense.Add(txn.Amount)
		}
	}

	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: true}
	if err := csvWriter.Write(&csvBuf, report.Transactions); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	// nil marshals to JSON null, not []
	txns := report.Transactions
	if txns == nil {
		txns = []models.Transaction{}
	}

	return c.JSON(ImportResponse{
		Success:      true,
		Transactions: txns,
		Count:        len(txns),
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		TotalLines:   report.TotalLines,
		MatchedLines: report.MatchedLines,
		SkippedLines: report.SkippedLines,
		CSV:          csvBuf.String(),
	})
}

func saveUpload(c *fiber.Ctx, fileHeader *multipart.FileHeader) (string, func(), error) {
	tmpFile, err := os.CreateTemp("", "statement-*"+strings.ToLower(filepath.Ext(fileHeader.Filename)))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file")
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()

	if err := c.SaveFile(fileHeader, tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", nil, fmt.Errorf("failed to save uploaded file")
	}

	return tmpPath, func() { os.Remove(tmpPath) }, nil
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ImportResponse{
		Success: false,
		Error:   msg,
	})
}
