package verification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const emailSubject = "[Smart Campus] Email verification code"

var emailTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Email verification code</title></head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #f9f9f9; border-radius: 10px; padding: 30px;">
    <div style="text-align: center; font-size: 24px; font-weight: bold; color: #409EFF;">Smart Campus</div>
    <p>Use the code below to finish creating your account.</p>
    <div style="background-color: #fff; border: 2px dashed #409EFF; border-radius: 8px; padding: 20px; text-align: center;">
      <div style="font-size: 32px; font-weight: bold; color: #409EFF; letter-spacing: 5px;">{{.Code}}</div>
    </div>
    <p style="font-size: 14px; color: #666;">The code is valid for {{.Minutes}} minutes and can be used once.
    If you did not request it, you can ignore this email.</p>
  </div>
</body>
</html>
`))

func renderEmail(code string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, struct {
		Code    string
		Minutes int
	}{Code: code, Minutes: int(ttl / time.Minute)})
	if err != nil {
		return "", fmt.Errorf("render verification email: %w", err)
	}
	return buf.String(), nil
}
