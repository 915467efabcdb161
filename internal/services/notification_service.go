// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/megano/storefront/internal/config"
	"github.com/megano/storefront/internal/models"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// Authentication notifications
func (s *NotificationService) SendWelcomeEmail(user *models.User) error {
	template := s.getEmailTemplate("welcome")

	data := map[string]interface{}{
		"Username":     user.Username,
		"ProfileURL":   fmt.Sprintf("%s/account", s.config.Frontend.BaseURL),
		"PlatformName": "Megano",
	}

	subject := "Welcome to Megano"
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

func (s *NotificationService) SendPasswordResetEmail(user *models.User, resetToken string) error {
	template := s.getEmailTemplate("password_reset")

	data := map[string]interface{}{
		"Username":  user.Username,
		"ResetURL":  fmt.Sprintf("%s/reset-password?token=%s", s.config.Frontend.BaseURL, resetToken),
		"ExpiresIn": "1 hour",
	}

	subject := "Password Reset Request"
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

// Moderation notifications
func (s *NotificationService) SendProductRequestReviewedEmail(user *models.User, request *models.ProductRequest, approved bool) error {
	templateType := "product_request_rejected"
	subject := "Product Request Rejected - " + request.Name
	if approved {
		templateType = "product_request_approved"
		subject = "Product Request Approved - " + request.Name
	}

	data := map[string]interface{}{
		"Username":    user.Username,
		"ProductName": request.Name,
		"ManagerNote": request.ManagerNote,
		"CatalogURL":  fmt.Sprintf("%s/catalog", s.config.Frontend.BaseURL),
	}

	template := s.getEmailTemplate(templateType)
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

func (s *NotificationService) SendSellerApplicationReviewedEmail(user *models.User, application *models.SellerApplication, approved bool) error {
	templateType := "seller_application_rejected"
	subject := "Seller Application Rejected"
	if approved {
		templateType = "seller_application_approved"
		subject = "Seller Application Approved"
	}

	data := map[string]interface{}{
		"Username":  user.Username,
		"AdminNote": application.AdminNote,
		"StoresURL": fmt.Sprintf("%s/account/stores", s.config.Frontend.BaseURL),
	}

	template := s.getEmailTemplate(templateType)
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

// Admin notifications
func (s *NotificationService) SendUserStatusChangeEmail(user *models.User, oldStatus models.UserStatus, reason string) error {
	data := map[string]interface{}{
		"Username":  user.Username,
		"NewStatus": user.Status,
		"OldStatus": oldStatus,
		"Reason":    reason,
	}

	subject := "Account Status Update"
	template := s.getEmailTemplate("user_status_change")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email delivery skipped: SMTP not configured")
		return nil
	}

	// Setup authentication
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	// Compose message
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	// Send email
	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	// In a real implementation, these would be loaded from files or database
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Welcome to Megano",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.Username}}!</h2>
	<p>Thank you for joining Megano. Your account is ready:</p>
	<a href="{{.ProfileURL}}">Go to your account</a>
	<p>Best regards,<br>{{.PlatformName}} Team</p>
</body>
</html>`,
		},
		"password_reset": {
			Subject: "Password Reset Request",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Password Reset</h2>
	<p>Hello {{.Username}},</p>
	<p>We received a request to reset your password. The link below expires in {{.ExpiresIn}}:</p>
	<a href="{{.ResetURL}}">Reset Password</a>
	<p>If you did not request this, you can ignore this email.</p>
</body>
</html>`,
		},
		"product_request_approved": {
			Subject: "Product Request Approved",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Product Approved!</h2>
	<p>Hello {{.Username}},</p>
	<p>Your request to add "{{.ProductName}}" to the catalog has been approved.</p>
	<p>You can now list it in your store.</p>
	<a href="{{.CatalogURL}}">Open Catalog</a>
</body>
</html>`,
		},
		"seller_application_approved": {
			Subject: "Seller Application Approved",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>You are a seller now!</h2>
	<p>Hello {{.Username}},</p>
	<p>Your seller application has been approved. Create your first store to start selling:</p>
	<a href="{{.StoresURL}}">My Stores</a>
</body>
</html>`,
		},
		// Add more templates as needed...
	}

	if template, exists := templates[templateType]; exists {
		return template
	}

	// Default template
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>Hello {{.Username}}, there is an update on your account.</p>",
	}
}
