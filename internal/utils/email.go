package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/wneessen/go-mail"

	"my_market_back_end/internal/models"
)

// SendOrderEmail envoie un e-mail HTML, avec une facture PDF en pièce jointe
// si fournie.
func SendOrderEmail(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	if err := msg.From(os.Getenv("SMTP_FROM")); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("facture.pdf", bytes.NewReader(pdfAttachment))
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

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

// GenerateOrderConfirmationHTML génère le HTML de confirmation de commande.
// Pour une commande non réglée (paiement à la livraison), un QR de virement
// SEPA est inséré sous le récapitulatif.
func GenerateOrderConfirmationHTML(order models.Order, qrBase64 string) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%.2f€</td>
				<td>%.2f€</td>
			</tr>`, item.ProductName, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	paymentHTML := `<p>Votre paiement a bien été reçu.</p>`
	if !order.PaymentState {
		paymentHTML = fmt.Sprintf(`
		<p>Votre commande sera réglée à la livraison. Vous pouvez aussi payer
		par virement en scannant ce QR code :</p>
		<img src="%s" alt="QR virement SEPA" width="180" height="180"/>`, qrBase64)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmation de votre commande</h2>
		<p>Bonjour %s,</p>
		<p>Votre commande <strong>%s</strong> est enregistrée et sera expédiée à :</p>
		<p>%s</p>
		<table width="100%%" cellpadding="6" style="border-collapse: collapse;">
			<tr style="background-color: #eee;">
				<th align="left">Article</th><th>Qté</th><th>Prix</th><th>Total</th>
			</tr>%s
			<tr>
				<td colspan="3" align="right"><strong>Total</strong></td>
				<td><strong>%.2f€</strong></td>
			</tr>
		</table>
		%s
		<p>Merci pour votre confiance !</p>
	</div>
</body>
</html>`, order.Username, order.ID, order.DeliveryAddress, itemsHTML, order.TotalPrice, paymentHTML)
}
