package service

import "fmt"

func recoveryCodeEmailTemplate(username, code, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s recovery code", appName)
	body := fmt.Sprintf(`Hi %s,

You requested to reset your password. Enter this code to continue:

    %s

The code expires in 15 minutes and can only be used once.

If you didn't request this, you can safely ignore this email. Your password won't be changed.

Best,
The %s Team`, username, code, appName)

	return subject, body
}

func welcomeEmailTemplate(username, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Create your first habit and start a streak!

If you have questions, reach out to our support team.

Best,
The %s Team`, username, appName)

	return subject, body
}

func passwordChangedEmailTemplate(username, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s password was changed", appName)
	body := fmt.Sprintf(`Hi %s,

Your password was just changed.

If this wasn't you, reset your password immediately and contact support.

Best,
The %s Team`, username, appName)

	return subject, body
}

func accountDeletedEmailTemplate(username, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s account has been deleted", appName)
	body := fmt.Sprintf(`Hi %s,

Your account has been deactivated and scheduled for removal.

If you didn't request this, please contact our support team immediately.

Best,
The %s Team`, username, appName)

	return subject, body
}
