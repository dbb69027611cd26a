package inventory

import "fmt"

// Hata sınıflandırması: doğrulama ve yetki hataları herhangi bir yazma
// olmadan önce döner. Defter yazım hatası ayrı bir tiptir; çağıran loglayıp
// yutar, stok güncellemesi geçerli kalır.

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s bulunamadı", e.What) }

// ConfirmationMismatchError: silme onay metni beklenen değerle eşleşmedi.
type ConfirmationMismatchError struct{}

func (e *ConfirmationMismatchError) Error() string {
	return "Onay metni eşleşmiyor"
}

// BackendUnavailableError: veritabanı okuma/yazma başarısız oldu.
// Birincil mutasyon için çağırana aynen iletilir.
type BackendUnavailableError struct {
	Err error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("veritabanı işlemi başarısız: %v", e.Err)
}

func (e *BackendUnavailableError) Unwrap() error { return e.Err }

// AuditWriteError: hareket defteri kaydı yazılamadı. Stok güncellemesi yine
// de başarılı sayılır; birincil mutasyonun erişilebilirliği defterin
// eksiksizliğinden önce gelir.
type AuditWriteError struct {
	Err error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("hareket defterine yazılamadı: %v", e.Err)
}

func (e *AuditWriteError) Unwrap() error { return e.Err }
