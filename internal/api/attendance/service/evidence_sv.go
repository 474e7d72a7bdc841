package attendanceService

import (
	"MarvelBackend/internal/api/attendance"
	contextPkg "MarvelBackend/pkg/context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// PresignEvidence exchanges a stored evidence URL for a short-lived signed
// one. Evidence keys are namespaced per employee, so a URL outside the
// caller's namespace is treated as nonexistent rather than forbidden.
func (s *attendanceService) PresignEvidence(ctx context.Context, employeeID, fileURL string) (string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if strings.TrimSpace(fileURL) == "" {
		return "", attendance.ErrInvalidRequest
	}

	if !strings.Contains(fileURL, "/attendance/"+employeeID+"/") {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"employee_id": employeeID,
		}).Warn("Evidence URL outside the employee namespace")
		return "", attendance.ErrEvidenceNotFound
	}

	signed, err := s.s3.PresignUrl(fileURL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"employee_id": employeeID,
			"error":       err.Error(),
		}).Warn("Failed to presign evidence URL")
		return "", attendance.ErrEvidenceNotFound
	}

	return signed, nil
}
