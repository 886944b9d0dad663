package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"time"

	"github.com/buchhaltung/invoice-analytics-be/internal/core/extraction"
	"github.com/buchhaltung/invoice-analytics-be/internal/modules/invoices/models"
	"github.com/buchhaltung/invoice-analytics-be/internal/modules/invoices/repositories"
	"github.com/buchhaltung/invoice-analytics-be/internal/shared/utils"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// IngestSummary reports the outcome counts of one normalization run.
type IngestSummary struct {
	Created          int `json:"created"`
	SkippedNoData    int `json:"skipped_no_data"`
	SkippedDuplicate int `json:"skipped_duplicate"`
	SkippedError     int `json:"skipped_error"`
}

type outcome int

const (
	outcomeCreated outcome = iota
	outcomeNoData
	outcomeDuplicate
	outcomeError
)

// Fallback vocabulary for invoices whose source carries no category.
var fallbackCategories = []string{
	"Operations",
	"Marketing",
	"Facilities",
	"IT Services",
	"Consulting",
	"Supplies",
}

const maxLineItems = 5

// IngestService is the extraction normalizer: it turns raw extraction
// documents into canonical invoice records.
type IngestService struct {
	vendorRepo   repositories.VendorRepo
	customerRepo repositories.CustomerRepo
	invoiceRepo  repositories.InvoiceRepo
	customerName string
	now          func() time.Time
}

// NewIngestService creates a new ingest service
func NewIngestService(
	vendorRepo repositories.VendorRepo,
	customerRepo repositories.CustomerRepo,
	invoiceRepo repositories.InvoiceRepo,
	customerName string,
) *IngestService {
	return &IngestService{
		vendorRepo:   vendorRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		customerName: customerName,
		now:          time.Now,
	}
}

// Normalize processes an ordered batch of raw documents. Errors are
// per-document: one bad document never aborts the rest of the batch.
func (s *IngestService) Normalize(batch []extraction.RawDocument) (*IngestSummary, error) {
	customer := &models.Customer{
		Name:    s.customerName,
		Email:   "billing@yourcompany.de",
		Address: "Business Street 1, 10115 Berlin, Germany",
	}
	if err := s.customerRepo.FindOrCreate(customer); err != nil {
		return nil, fmt.Errorf("failed to resolve default customer: %w", err)
	}

	// Both caches are scoped to this run: the vendor cache guarantees at
	// most one vendor row per distinct name, the seen set enforces the
	// (documentId, invoiceNumber) dedup key within the batch.
	vendorCache := map[string]uuid.UUID{}
	seen := map[string]struct{}{}

	summary := &IngestSummary{}
	for i := range batch {
		switch s.processOne(&batch[i], i, customer.ID, vendorCache, seen) {
		case outcomeCreated:
			summary.Created++
		case outcomeNoData:
			summary.SkippedNoData++
		case outcomeDuplicate:
			summary.SkippedDuplicate++
		case outcomeError:
			summary.SkippedError++
		}
	}

	utils.LogInfo("ingest batch finished", map[string]interface{}{
		"documents":         len(batch),
		"created":           summary.Created,
		"skipped_no_data":   summary.SkippedNoData,
		"skipped_duplicate": summary.SkippedDuplicate,
		"skipped_error":     summary.SkippedError,
	})
	return summary, nil
}

// processOne normalizes a single document. Panics are contained here so
// a malformed document degrades to skippedError.
func (s *IngestService) processOne(doc *extraction.RawDocument, idx int, customerID uuid.UUID, vendorCache map[string]uuid.UUID, seen map[string]struct{}) (result outcome) {
	defer func() {
		if r := recover(); r != nil {
			utils.LogError("document processing panicked", fmt.Errorf("%v", r), map[string]interface{}{
				"document_id": doc.ID,
				"index":       idx,
			})
			result = outcomeError
		}
	}()

	payload := doc.Payload()
	if payload == nil {
		return outcomeNoData
	}
	now := s.now()

	invoiceNumber := s.resolveInvoiceNumber(payload, doc.ID)

	dedupKey := doc.ID + "-" + invoiceNumber
	if _, ok := seen[dedupKey]; ok {
		return outcomeDuplicate
	}
	exists, err := s.invoiceRepo.ExistsByDocument(doc.ID, invoiceNumber)
	if err != nil {
		utils.LogError("dedup lookup failed", err, map[string]interface{}{"document_id": doc.ID})
		return outcomeError
	}
	if exists {
		return outcomeDuplicate
	}
	seen[dedupKey] = struct{}{}

	vendorID, err := s.resolveVendor(payload, idx, vendorCache)
	if err != nil {
		utils.LogError("vendor resolution failed", err, map[string]interface{}{"document_id": doc.ID})
		return outcomeError
	}

	// Dates: best-effort parsing with documented defaults. A missing
	// invoice date is a data-quality gap, not a business decision.
	invoiceDate, ok := extraction.FirstDate(payload, "invoice.invoiceDate")
	if !ok {
		log.Printf("⚠️ Document %s has no parseable invoice date, defaulting to now", doc.ID)
		invoiceDate = now
	}
	var deliveryDate *time.Time
	if d, ok := extraction.FirstDate(payload, "invoice.deliveryDate"); ok {
		deliveryDate = &d
	}
	dueDate, ok := extraction.FirstDate(payload, "payment.dueDate")
	if !ok {
		dueDate = invoiceDate.AddDate(0, 0, 30)
	}

	totalAmount, taxAmount, netAmount := s.resolveAmounts(payload, doc.ID)
	confidence := confidenceScore(payload)
	status := deriveStatus(payload, dueDate, now)
	category := s.resolveCategory(payload, doc.ID)

	sourceData, err := json.Marshal(payload)
	if err != nil {
		return outcomeError
	}

	invoice := &models.Invoice{
		InvoiceNumber:      invoiceNumber,
		VendorID:           vendorID,
		CustomerID:         customerID,
		Date:               invoiceDate,
		DueDate:            dueDate,
		DeliveryDate:       deliveryDate,
		TotalAmount:        totalAmount,
		TaxAmount:          taxAmount,
		NetAmount:          netAmount,
		Status:             status,
		Category:           category,
		Notes:              fmt.Sprintf("Processed from %s", fallbackString(doc.FileName(), "N/A")),
		DocumentID:         doc.ID,
		FileName:           doc.FileName(),
		FilePath:           doc.FilePath,
		FileType:           doc.FileType,
		OrganizationID:     doc.ResolvedOrganizationID(),
		DepartmentID:       doc.ResolvedDepartmentID(),
		UploadedByID:       doc.ResolvedUploaderID(),
		TemplateID:         doc.Metadata.TemplateID,
		TemplateName:       doc.Metadata.TemplateName,
		ConfidenceScore:    confidence,
		IsValidatedByHuman: doc.IsValidatedByHuman,
		SourceData:         datatypes.JSON(sourceData),
	}

	items := s.resolveLineItems(payload, totalAmount, category)

	var payment *models.Payment
	if status == models.StatusPaid {
		paidAt := dueDate
		if now.Before(paidAt) {
			paidAt = now
		}
		payment = &models.Payment{
			Amount:      totalAmount,
			PaymentDate: paidAt,
			Method:      "bank_transfer",
			Reference:   "PAY-" + invoiceNumber,
		}
	}

	if err := s.invoiceRepo.CreateWithItems(invoice, items, payment); err != nil {
		utils.LogError("failed to persist invoice", err, map[string]interface{}{
			"document_id":    doc.ID,
			"invoice_number": invoiceNumber,
		})
		return outcomeError
	}

	return outcomeCreated
}

// resolveInvoiceNumber picks the extracted invoice id or number; when
// one exists it is suffixed with a short document-id prefix to reduce
// cross-document collisions, otherwise the number is synthesized from
// the document id alone.
func (s *IngestService) resolveInvoiceNumber(payload *extraction.Node, documentID string) string {
	base, ok := extraction.FirstText(payload, "invoice.invoiceId", "invoice.invoiceNumber")
	if !ok {
		return "INV-" + documentID
	}
	return base + "-" + shortID(documentID)
}

// resolveVendor looks the vendor up in the run cache first, then in the
// store, and creates it on first sighting.
func (s *IngestService) resolveVendor(payload *extraction.Node, idx int, cache map[string]uuid.UUID) (uuid.UUID, error) {
	name, ok := extraction.FirstText(payload, "vendor.vendorName", "vendor.name")
	if !ok {
		name = fmt.Sprintf("Vendor %d", idx+1)
	}

	if id, ok := cache[name]; ok {
		return id, nil
	}

	existing, err := s.vendorRepo.FindByName(name)
	if err == nil {
		cache[name] = existing.ID
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}

	vendor := &models.Vendor{Name: name}
	vendor.Email, _ = extraction.FirstText(payload, "vendor.email", "vendor.vendorEmail")
	vendor.Phone, _ = extraction.FirstText(payload, "vendor.phone", "vendor.vendorPhone")
	vendor.Address, _ = extraction.FirstText(payload, "vendor.vendorAddress", "vendor.address")
	vendor.TaxID, _ = extraction.FirstText(payload, "vendor.vendorTaxId", "vendor.taxId")
	vendor.PartyNumber, _ = extraction.FirstText(payload, "vendor.vendorPartyNumber", "vendor.partyNumber")

	if err := s.vendorRepo.Create(vendor); err != nil {
		return uuid.Nil, err
	}
	cache[name] = vendor.ID
	return vendor.ID, nil
}

// resolveAmounts applies the monetary fallback chains. An unparsable
// total degrades to a deterministic synthesized placeholder; missing
// tax defaults to 19% VAT and missing net to total minus tax, so the
// derived values keep total ≈ net + tax.
func (s *IngestService) resolveAmounts(payload *extraction.Node, documentID string) (total, tax, net float64) {
	total, ok := extraction.FirstAmount(payload, "amount.totalAmount", "amount.total", "amount.grandTotal")
	if !ok {
		total = synthesizeAmount(documentID)
	}
	tax, ok = extraction.FirstAmount(payload, "amount.taxAmount", "amount.totalTax")
	if !ok {
		tax = total * 0.19
	}
	net, ok = extraction.FirstAmount(payload, "amount.netAmount", "amount.subtotal")
	if !ok {
		net = total - tax
	}
	return total, tax, net
}

// resolveLineItems takes at most maxLineItems from the source; when the
// document has none, exactly one covering item is synthesized.
func (s *IngestService) resolveLineItems(payload *extraction.Node, totalAmount float64, category string) []models.LineItem {
	source := payload.At("lineItems").Items()
	if len(source) == 0 {
		return []models.LineItem{{
			Description: category + " Services",
			Quantity:    1,
			UnitPrice:   totalAmount,
			Amount:      totalAmount,
			Category:    category,
		}}
	}

	if len(source) > maxLineItems {
		source = source[:maxLineItems]
	}
	items := make([]models.LineItem, 0, len(source))
	for _, node := range source {
		description, ok := extraction.FirstText(node, "description", "itemDescription")
		if !ok {
			description = "Service/Product"
		}
		quantity, ok := node.At("quantity").Float()
		if !ok || quantity <= 0 {
			quantity = 1
		}
		unitPrice, ok := extraction.FirstAmount(node, "unitPrice", "price")
		if !ok {
			unitPrice = totalAmount / float64(len(source))
		}
		amount, ok := extraction.FirstAmount(node, "totalPrice", "amount")
		if !ok {
			amount = quantity * unitPrice
		}
		items = append(items, models.LineItem{
			Description: description,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			Amount:      amount,
			Category:    category,
		})
	}
	return items
}

// resolveCategory uses the extracted category when present, otherwise a
// deterministic pick from the fallback vocabulary.
func (s *IngestService) resolveCategory(payload *extraction.Node, documentID string) string {
	if category, ok := extraction.FirstText(payload, "invoice.category", "category"); ok {
		return category
	}
	return fallbackCategories[int(hashID(documentID)%uint64(len(fallbackCategories)))]
}

// confidenceScore is the arithmetic mean of every confidence annotation
// in the tree; 0.5 when the extractor annotated nothing.
func confidenceScore(payload *extraction.Node) float64 {
	confidences := payload.Confidences()
	if len(confidences) == 0 {
		return 0.5
	}
	var sum float64
	for _, c := range confidences {
		sum += c
	}
	return sum / float64(len(confidences))
}

// deriveStatus assigns the invoice status deterministically: an explicit
// extracted status wins, then a recorded payment date implies paid, then
// due-date lateness implies overdue, everything else is pending.
func deriveStatus(payload *extraction.Node, dueDate, now time.Time) string {
	if s, ok := extraction.FirstText(payload, "payment.status", "invoice.status"); ok {
		switch s {
		case models.StatusDraft, models.StatusPending, models.StatusPaid, models.StatusOverdue:
			return s
		}
	}
	if _, ok := extraction.FirstDate(payload, "payment.paymentDate", "payment.paidDate"); ok {
		return models.StatusPaid
	}
	if dueDate.Before(now) {
		return models.StatusOverdue
	}
	return models.StatusPending
}

// SweepOverdue flips pending invoices past their due date to overdue.
// Wired to the cron scheduler in cmd/api.
func (s *IngestService) SweepOverdue() {
	changed, err := s.invoiceRepo.MarkOverdue(s.now())
	if err != nil {
		utils.LogError("overdue sweep failed", err, nil)
		return
	}
	if changed > 0 {
		log.Printf("⏰ Overdue sweep: %d invoice(s) marked overdue", changed)
	}
}

// synthesizeAmount derives a stable placeholder total in [1000, 51000)
// from the document id when extraction yields no usable amount.
func synthesizeAmount(documentID string) float64 {
	return 1000 + float64(hashID(documentID)%50000)
}

func hashID(id string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return h.Sum64()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func fallbackString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
