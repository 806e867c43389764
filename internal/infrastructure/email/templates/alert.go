// Package templates provides email template layout
package templates

import (
	"bytes"
	"html/template"
	"log"
	"time"
)

type AlertEmailProps struct {
	Subject  string
	Detail   string
	RaisedAt time.Time
}

// alertEmailTemplate is the compiled template for operator alerts
var alertEmailTemplate = template.Must(template.New("alertEmail").Parse(`
<!doctype html>
<html lang="en">
  <head>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta http-equiv="Content-Type" content="text/html; charset=UTF-8">
    <title>{{.Subject}}</title>
  </head>
  <body style="font-family: Helvetica, sans-serif; -webkit-font-smoothing: antialiased; font-size: 16px; line-height: 1.3; background-color: #f4f5f6; margin: 0; padding: 0;">
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" style="border-collapse: separate; background-color: #f4f5f6; width: 100%;" width="100%" bgcolor="#f4f5f6">
      <tr>
        <td style="font-family: Helvetica, sans-serif; font-size: 16px; vertical-align: top;" valign="top">&nbsp;</td>
        <td style="font-family: Helvetica, sans-serif; font-size: 16px; vertical-align: top; max-width: 600px; padding-top: 24px; width: 600px; margin: 0 auto;" width="600" valign="top">
          <table role="presentation" border="0" cellpadding="0" cellspacing="0" style="border-collapse: separate; background: #ffffff; border: 1px solid #eaebed; border-radius: 16px; width: 100%;" width="100%">
            <tr>
              <td style="font-family: Helvetica, sans-serif; font-size: 16px; vertical-align: top; box-sizing: border-box; padding: 24px;" valign="top">
                <h2 style="margin: 0 0 16px;">{{.Subject}}</h2>
                <p style="margin: 0 0 16px;">{{.Detail}}</p>
                <p style="color: #9a9ea6; font-size: 14px; margin: 0;">Raised at {{.RaisedAt.Format "2006-01-02 15:04:05 MST"}}</p>
              </td>
            </tr>
          </table>
          <div style="clear: both; padding-top: 24px; text-align: center; width: 100%; color: #9a9ea6; font-size: 14px;">
            StoryDesk operator alerts
          </div>
        </td>
        <td style="font-family: Helvetica, sans-serif; font-size: 16px; vertical-align: top;" valign="top">&nbsp;</td>
      </tr>
    </table>
  </body>
</html>`))

// GetAlertEmail renders the operator alert email body.
func GetAlertEmail(props AlertEmailProps) string {
	if props.RaisedAt.IsZero() {
		props.RaisedAt = time.Now().UTC()
	}

	var buf bytes.Buffer
	if err := alertEmailTemplate.Execute(&buf, props); err != nil {
		log.Printf("Error executing alert email template: %v", err)
		return "<html><body>Template execution error</body></html>"
	}

	return buf.String()
}
