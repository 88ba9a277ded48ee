package checkout

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition  = errors.New("illegal transition of checkout step")
	ErrAddressIncomplete  = errors.New("please fill all shipping details")
	ErrOrderInFlight      = errors.New("an order is already being placed")
	ErrProofRequired      = errors.New("please upload a payment screenshot for UPI orders")
	ErrNotAuthenticated   = errors.New("please login to place an order")
	ErrUnknownMethod      = errors.New("unknown payment method")
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrProofUploadFailed  = errors.New("failed to upload payment screenshot")
	ErrOrderFailed        = errors.New("order failed to place, please check your connection")
)
