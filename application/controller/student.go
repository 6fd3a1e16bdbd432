package controller

import (
	"context"
	"errors"
	"net/http"

	apperrors "campuspass.io/application/appErrors"
	"campuspass.io/application/controller/dto"
	"campuspass.io/application/interfaces"
	"campuspass.io/application/repository"
	"campuspass.io/infrastructure/logger"
	server_response "campuspass.io/infrastructure/serverResponse"
	"campuspass.io/infrastructure/validator"
)

// FetchStudent looks a student up in the registry by the 7 digit ID.
func FetchStudent(ctx *interfaces.ApplicationContext[dto.FetchStudentDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	student, err := repository.StudentRepo().FindByID(context.Background(), ctx.Body.StudentID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			apperrors.NotFoundError(ctx.Ctx, "this student ID is not in the registry")
			return
		}
		logger.Error("an error occured while fetching student", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "studentID",
			Data: ctx.Body.StudentID,
		})
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "student found", student, nil, nil)
}
