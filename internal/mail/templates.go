package mail

import "html/template"

var invitationTemplate = template.Must(template.New("invitation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f5f5f5; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px;">
    <h2>You're invited to join {{if .StoreName}}{{.StoreName}} on {{end}}the Dark Horse 3PL Platform</h2>
    <p>Hello{{if .FullName}} {{.FullName}}{{end}},</p>
    <p>You have been invited{{if .InviterName}} by {{.InviterName}}{{end}} to join as a <strong>{{.Role}}</strong>{{if .StoreName}} for {{.StoreName}}{{end}}.</p>
    <p>To accept this invitation and set up your account, click the button below:</p>
    <p style="text-align: center;">
      <a href="{{.InvitationLink}}" style="display: inline-block; background-color: #3498db; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px;">Accept Invitation</a>
    </p>
    <p><strong>Important:</strong> this invitation expires in {{.ExpiresInHours}} hours.</p>
    <p>If the button doesn't work, copy this link into your browser:</p>
    <p style="word-break: break-all; color: #3498db;">{{.InvitationLink}}</p>
    <hr>
    <p style="font-size: 14px; color: #666;">Best regards,<br>The Dark Horse 3PL Team</p>
  </div>
</body>
</html>`))

var sallaConnectedTemplate = template.Must(template.New("salla_connected").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f5f5f5; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px;">
    <h2>Salla store connected successfully</h2>
    <p>Hello{{if .FullName}} {{.FullName}}{{end}},</p>
    <p>Your Salla store <strong>{{.StoreName}}</strong> is now connected to the Dark Horse 3PL Platform.</p>
    <p>Products, inventory and orders will sync automatically from here on.</p>
    <hr>
    <p style="font-size: 14px; color: #666;">Best regards,<br>The Dark Horse 3PL Team</p>
  </div>
</body>
</html>`))
