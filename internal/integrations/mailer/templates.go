package mailer

import "fmt"

// BookingConfirmation собирает письмо подтверждения резервации.
// dateLine уже отформатирован вызывающим кодом: для книг это диапазон
// дат, для залов дата + время начала.
func BookingConfirmation(userName, serviceName, itemName, dateLine, code string) (subject, html string) {
	subject = fmt.Sprintf("Confirmación - %s", code)
	html = fmt.Sprintf(`
<div style="font-family: sans-serif; max-width: 500px; margin: auto; border: 1px solid #eee; border-radius: 10px; overflow: hidden;">
  <div style="background-color: #D91023; color: white; padding: 20px; text-align: center;">
    <h2 style="margin: 0;">¡Reserva Confirmada!</h2>
  </div>
  <div style="padding: 20px; text-align: center;">
    <p style="color: #666; font-size: 16px;">Hola <strong>%s</strong>, tu solicitud ha sido procesada con éxito.</p>
    <div style="background-color: #f9f9f9; padding: 15px; border-radius: 8px; margin: 20px 0; text-align: left;">
      <p><strong>Servicio:</strong> %s</p>
      <p><strong>Item:</strong> %s</p>
      <p><strong>Fecha:</strong> %s</p>
    </div>
    <p>Presenta este código al ingresar:</p>
    <p style="font-size:20px; font-weight:bold; letter-spacing:2px;">%s</p>
    <p style="font-size: 12px; color: #999; margin-top: 20px;">
      Recuerda que tienes una tolerancia máxima de 20 minutos.<br>
      Biblioteca Nacional del Perú
    </p>
  </div>
</div>`, userName, serviceName, itemName, dateLine, code)
	return subject, html
}

// RecoveryOTP собирает письмо с кодом восстановления
func RecoveryOTP(code string, expiresMinutes int) (subject, html string) {
	subject = "Código de Recuperación - BNP Servicios"
	html = fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; color: #333;">
  <h2>Recuperación de Cuenta</h2>
  <p>Has solicitado restablecer tu contraseña o verificar tu identidad.</p>
  <p>Tu código de verificación es:</p>
  <h1 style="color: #D91023; letter-spacing: 5px;">%s</h1>
  <p>Este código expirará en <strong>%d minutos</strong>.</p>
  <hr>
  <p style="font-size: 12px; color: #777;">Si no solicitaste este código, ignora este mensaje.</p>
</div>`, code, expiresMinutes)
	return subject, html
}
