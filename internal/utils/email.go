package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"drrecetas_back_end/internal/models"

	"github.com/skip2/go-qrcode"
	"github.com/wneessen/go-mail"
)

// CorreoConfirmacion envía el correo de confirmación de orden con el QR
// del código de recogido y, si se puede generar, el recibo en PDF.
type CorreoConfirmacion struct{}

func NewCorreoConfirmacion() *CorreoConfirmacion {
	return &CorreoConfirmacion{}
}

// EnviarConfirmacion corre en una goroutine aparte: un correo fallido se
// loguea y ya, nunca bloquea ni revierte la confirmación.
func (c *CorreoConfirmacion) EnviarConfirmacion(confirmacion models.Confirmacion, total float64) {
	if os.Getenv("SMTP_HOST") == "" || confirmacion.Email == "" {
		return
	}

	qr, err := GenerarQRConfirmacion(confirmacion.CpCode)
	if err != nil {
		log.Println("⚠️ No se pudo generar el QR de confirmación:", err)
		qr = ""
	}

	html := GenerarHTMLConfirmacion(confirmacion, total, qr)

	pdf, err := RenderReciboPDF(confirmacion.CpCode)
	if err != nil {
		log.Println("⚠️ No se pudo generar el recibo PDF:", err)
		pdf = nil
	}

	if err := enviar(confirmacion.Email, "Confirmación de tu orden — Doctor Recetas", html, pdf); err != nil {
		log.Println("❌ Error envío de correo de confirmación:", err)
	} else {
		log.Println("📧 Correo de confirmación enviado a", confirmacion.Email)
	}
}

func enviar(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	if err := msg.From("noreply@doctorrecetas.com"); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("recibo_doctorrecetas.pdf", bytes.NewReader(pdfAttachment))
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	return client.DialAndSend(msg)
}

// GenerarQRConfirmacion genera el QR del código de orden en base64 listo
// para un <img src="...">.
func GenerarQRConfirmacion(cpCode string) (string, error) {
	png, err := qrcode.Encode(cpCode, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// GenerarHTMLConfirmacion arma el cuerpo del correo de confirmación.
func GenerarHTMLConfirmacion(confirmacion models.Confirmacion, total float64, qrBase64 string) string {
	qrHTML := ""
	if qrBase64 != "" {
		qrHTML = fmt.Sprintf(`<p style="text-align:center"><img src="%s" alt="QR de tu orden" width="180"/></p>`, qrBase64)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2 style="color:#0b7285;">¡Gracias por tu compra!</h2>
	<p>Tu orden fue procesada con éxito.</p>
	<table style="border-collapse: collapse;">
		<tr><td style="padding:4px 12px 4px 0;"><b>Código de orden:</b></td><td>%s</td></tr>
		<tr><td style="padding:4px 12px 4px 0;"><b>Total pagado:</b></td><td>$%.2f</td></tr>
		<tr><td style="padding:4px 12px 4px 0;"><b>Órdenes enviadas:</b></td><td>%d</td></tr>
	</table>
	%s
	<p>Recibirás tus documentos por correo electrónico una vez el médico los apruebe.</p>
	<p style="color:#888;font-size:12px;">Doctor Recetas — doctorrecetas.com</p>
</body>
</html>`, confirmacion.CpCode, total, confirmacion.OrdenesEnviadas, qrHTML)
}
