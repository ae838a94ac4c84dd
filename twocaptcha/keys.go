package twocaptcha

import (
	"time"

	"github.com/anatolykoptev/go-captcha/task"
)

const (
	providerName = "2captcha"

	createTaskURL = "https://api.2captcha.com/createTask"
	resultURL     = "https://api.2captcha.com/getTaskResult"
	balanceURL    = "https://api.2captcha.com/getBalance"

	pollInterval = 3 * time.Second
)

// Request envelope keys.
const (
	keyClientKey = "clientKey"
	keyTask      = "task"
	keyTaskID    = "taskId"
)

// Result statuses.
const (
	statusProcessing = "processing"
	statusReady      = "ready"
)

// Generic task keys.
const (
	keyType       = "type"
	keyWebsiteURL = "websiteURL"
	keyUserAgent  = "userAgent"
)

var proxyKeys = task.ProxyKeys{
	Type:     "proxyType",
	Address:  "proxyAddress",
	Port:     "proxyPort",
	Login:    "proxyLogin",
	Password: "proxyPassword",
}

// FunCaptcha.
const (
	typeFunCaptcha      = "FunCaptchaTaskProxyless"
	typeFunCaptchaProxy = "FunCaptchaTask"

	keyPublicKey = "websitePublicKey"
	keySubdomain = "funcaptchaApiJSSubdomain"

	solutionFunCaptchaToken = "token"
)

// hCaptcha.
const (
	typeHCaptcha      = "HCaptchaTaskProxyless"
	typeHCaptchaProxy = "HCaptchaTask"

	keySiteKey   = "websiteKey"
	keyInvisible = "isInvisible"

	solutionHCaptchaResponse  = "token"
	solutionHCaptchaRequest   = "respKey"
	solutionHCaptchaUserAgent = "userAgent"
)

// Image to text.
const (
	typeImage = "ImageToTextTask"

	keyBody = "body"

	solutionImageText = "text"
)
