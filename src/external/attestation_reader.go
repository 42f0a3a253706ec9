package external

import (
	"encoding/hex"
	"net/http"
	"time"

	"attestation-service/src/nullifier"

	"github.com/gin-gonic/gin"
)

// AttestationReader answers "is this identity currently attested for this
// domain" from the local registry.
type AttestationReader struct {
	Registry nullifier.Registry
}

func NewAttestationReader(registry nullifier.Registry) *AttestationReader {
	return &AttestationReader{Registry: registry}
}

func (ar *AttestationReader) Status(c *gin.Context) {
	commitmentStr := c.Query("commitment")
	domainStr := c.Query("domain")

	if commitmentStr == "" || domainStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: commitment or domain param is empty",
		})
		return
	}

	commitmentBytes, err := hex.DecodeString(commitmentStr)
	if err != nil || len(commitmentBytes) != 32 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Could not parse commitment: expected 32 hex-encoded bytes",
		})
		return
	}
	var commitment [32]byte
	copy(commitment[:], commitmentBytes)

	if len(domainStr) > nullifier.DomainLen {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Domain exceeds 32 bytes",
		})
		return
	}

	key := nullifier.DeriveKey(nullifier.DomainFromString(domainStr), commitment)
	record, err := ar.Registry.GetByKey(key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No attestation registered"})
		return
	}

	now := time.Now().Unix()
	c.JSON(http.StatusOK, gin.H{
		"active":     record.Live(now),
		"domain":     domainStr,
		"created_at": record.CreatedAt,
		"expires_at": record.ExpiresAt,
	})
}

// Sweep purges expired records immediately instead of waiting for the next
// cron run.
func (ar *AttestationReader) Sweep(c *gin.Context) {
	purged, err := ar.Registry.PurgeExpired(time.Now().Unix())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Purging expired records failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purged": purged})
}

func (ar *AttestationReader) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
