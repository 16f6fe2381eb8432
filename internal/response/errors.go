package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Identity ──────────────────────────────────────────────────────
	ErrTokenRequired    ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid     ErrCode = "TOKEN_INVALID"
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"
	ErrSchoolMismatch   ErrCode = "SCHOOL_MISMATCH"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Subject catalog ───────────────────────────────────────────────
	ErrDuplicateCode       ErrCode = "DUPLICATE_CODE"
	ErrCyclicDependency    ErrCode = "CYCLIC_DEPENDENCY"
	ErrPrerequisiteInUse   ErrCode = "PREREQUISITE_IN_USE"
	ErrUnknownPrerequisite ErrCode = "UNKNOWN_PREREQUISITE"

	// ─── Cohort registry ───────────────────────────────────────────────
	ErrDuplicateName   ErrCode = "DUPLICATE_NAME"
	ErrCohortInactive  ErrCode = "COHORT_INACTIVE"
	ErrCohortFull      ErrCode = "COHORT_FULL"
	ErrAlreadyEnrolled ErrCode = "ALREADY_ENROLLED"
	ErrNotEnrolled     ErrCode = "NOT_ENROLLED"

	// ─── Schedule engine ───────────────────────────────────────────────
	ErrSubjectInactive  ErrCode = "SUBJECT_INACTIVE"
	ErrTeacherConflict  ErrCode = "TEACHER_CONFLICT"
	ErrRoomConflict     ErrCode = "ROOM_CONFLICT"
	ErrSlotNotActive    ErrCode = "SLOT_NOT_ACTIVE"
	ErrSlotNotCancelled ErrCode = "SLOT_NOT_CANCELLED"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Identity ──────────────────────────────────────────────────────
	case ErrTokenRequired:
		return "Token de autenticação é obrigatório."
	case ErrTokenInvalid:
		return "Token de autenticação inválido."
	case ErrForbidden:
		return "Você não tem permissão para acessar este recurso."
	case ErrPermissionDenied:
		return "Permissão negada."
	case ErrSchoolMismatch:
		return "O recurso pertence a outra escola."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Falha na validação. Verifique os dados informados."
	case ErrInvalidID:
		return "Formato de ID inválido."
	case ErrInvalidPayload:
		return "Corpo da requisição inválido."

	// ─── Subject catalog ───────────────────────────────────────────────
	case ErrDuplicateCode:
		return "Já existe uma disciplina com este código na escola."
	case ErrCyclicDependency:
		return "A alteração criaria um ciclo de pré-requisitos."
	case ErrPrerequisiteInUse:
		return "A disciplina é pré-requisito de outra disciplina ativa."
	case ErrUnknownPrerequisite:
		return "Um dos pré-requisitos informados não existe nesta escola."

	// ─── Cohort registry ───────────────────────────────────────────────
	case ErrDuplicateName:
		return "Já existe uma turma com este nome no ano letivo."
	case ErrCohortInactive:
		return "A turma está inativa e não aceita novas matrículas."
	case ErrCohortFull:
		return "A turma atingiu sua capacidade máxima."
	case ErrAlreadyEnrolled:
		return "O aluno já possui matrícula ativa nesta turma."
	case ErrNotEnrolled:
		return "O aluno não possui matrícula ativa nesta turma."

	// ─── Schedule engine ───────────────────────────────────────────────
	case ErrSubjectInactive:
		return "A disciplina está inativa e não pode ser agendada."
	case ErrTeacherConflict:
		return "O professor já possui aula nesse horário."
	case ErrRoomConflict:
		return "A sala já está ocupada nesse horário."
	case ErrSlotNotActive:
		return "O horário não está ativo."
	case ErrSlotNotCancelled:
		return "O horário não está cancelado."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Recurso não encontrado."
	case ErrConflict:
		return "O recurso já existe."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Muitas requisições. Tente novamente em instantes."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Ocorreu um erro interno no servidor."
	default:
		return "Ocorreu um erro inesperado."
	}
}
