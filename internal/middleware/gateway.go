package middleware

import (
	"crypto/subtle"
	"os"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

// gatewayMiddleware authenticates the WhatsApp gateway by a shared secret,
// accepted either as the X-Gateway-Secret header or as the "secret" field of
// the posted body. An empty GATEWAY_SHARED_SECRET disables the check for
// local development.
type gatewayMiddleware struct {
	secret string
}

func newGatewayMiddleware() *gatewayMiddleware {
	return &gatewayMiddleware{
		secret: os.Getenv("GATEWAY_SHARED_SECRET"),
	}
}

func (m *middleware) NewGatewayAuth(ctx *fiber.Ctx) error {
	secret := m.gateway.secret
	if secret == "" {
		return ctx.Next()
	}

	candidate := ctx.Get("X-Gateway-Secret")
	if candidate == "" {
		var probe struct {
			Secret string `json:"secret"`
		}
		_ = jsoniter.Unmarshal(ctx.Body(), &probe)
		candidate = probe.Secret
	}

	if subtle.ConstantTimeCompare([]byte(candidate), []byte(secret)) != 1 {
		m.log.Warnf("gateway secret mismatch from IP %s", ctx.IP())
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid gateway secret",
			"code":  "UNAUTHORIZED",
		})
	}

	return ctx.Next()
}
