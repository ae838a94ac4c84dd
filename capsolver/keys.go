package capsolver

import (
	"time"

	"github.com/anatolykoptev/go-captcha/task"
)

const (
	providerName = "capsolver"

	capsolverAPI  = "https://api.capsolver.com"
	createTaskURL = capsolverAPI + "/createTask"
	resultURL     = capsolverAPI + "/getTaskResult"
	balanceURL    = capsolverAPI + "/getBalance"

	pollInterval = 2 * time.Second
)

const (
	keyClientKey = "clientKey"
	keyTask      = "task"
	keyTaskID    = "taskId"
)

const (
	statusReady  = "ready"
	statusFailed = "failed"
)

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

const (
	typeFunCaptcha      = "FunCaptchaTaskProxyLess"
	typeFunCaptchaProxy = "FunCaptchaTask"

	keyPublicKey = "websitePublicKey"
	keySubdomain = "funcaptchaApiJSSubdomain"

	solutionFunCaptchaToken = "token"
)

const (
	typeHCaptcha      = "HCaptchaTaskProxyLess"
	typeHCaptchaProxy = "HCaptchaTask"

	keySiteKey   = "websiteKey"
	keyInvisible = "isInvisible"

	solutionHCaptchaResponse  = "gRecaptchaResponse"
	solutionHCaptchaRequest   = "respKey"
	solutionHCaptchaUserAgent = "userAgent"
)

const (
	typeImage = "ImageToTextTask"

	keyBody   = "body"
	keyModule = "module"

	defaultModule = "common"

	solutionImageText       = "text"
	solutionImageConfidence = "confidence"
)
