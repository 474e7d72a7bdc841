package attendance

// Check-in/check-out evidence modes accepted over the wire.
const (
	ModeSelfie = "SELFIE"
	ModeBio    = "BIO"
)

type CheckRequest struct {
	EmployeeID    string   `json:"employeeId" validate:"required"`
	Lat           *float64 `json:"lat" validate:"required"`
	Lng           *float64 `json:"lng" validate:"required"`
	Mode          string   `json:"mode" validate:"required,oneof=SELFIE BIO"`
	SelfieDataURL string   `json:"selfieDataUrl"`
	DeviceName    string   `json:"deviceName"`
	Note          string   `json:"note"`
}

type EntryResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employeeId"`
	Type           string  `json:"type"`
	Method         string  `json:"method"`
	Status         string  `json:"status"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	DistanceMeters float64 `json:"distanceMeters"`
	SelfieURL      string  `json:"selfieUrl,omitempty"`
	VisaPhotoURL   string  `json:"visaPhotoUrl,omitempty"`
	Note           string  `json:"note,omitempty"`
	Timestamp      string  `json:"timestamp"`
}

type EntryEnvelope struct {
	Entry EntryResponse `json:"entry"`
}

type EntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
}

// EvidenceResponse carries a short-lived signed URL for a stored selfie.
type EvidenceResponse struct {
	URL string `json:"url"`
}
