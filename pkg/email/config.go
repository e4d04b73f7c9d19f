package email

// Config holds email delivery settings. The Postmark tokens may be empty in
// development, in which case the binary falls back to DevSender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"` // DevDir receives rendered emails when Postmark is not configured.
}

// PostmarkEnabled reports whether both Postmark tokens are present.
func (c Config) PostmarkEnabled() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != ""
}
